package models

import (
	"fmt"
	"strings"
)

// AgentStats is one agent's row of assignment counters.
type AgentStats struct {
	Name          string `json:"name"`
	Total         int    `json:"total"`
	Interested    int    `json:"interested"`
	NotInterested int    `json:"notInterested"`
	BusyCallLater int    `json:"busyCallLater"`
	Declined      int    `json:"declined"`
	SwitchedOff   int    `json:"switchedOff"`
	WrongNumber   int    `json:"wrongNumber"`
	NotReachable  int    `json:"notReachable"`
	CallBack      int    `json:"callBack"`
	Registered    int    `json:"registered"`
	Pending       int    `json:"pending"`
}

// StatsColumns names the counters in display order, matching Values.
var StatsColumns = []string{
	"Total", "Interested", "Not Interested", "Busy Call Later", "Declined",
	"Switched Off", "Wrong Number", "Not Reachable", "Call Back", "Registered", "Pending",
}

// Values returns the counters in StatsColumns order.
func (s AgentStats) Values() []int {
	return []int{
		s.Total, s.Interested, s.NotInterested, s.BusyCallLater, s.Declined,
		s.SwitchedOff, s.WrongNumber, s.NotReachable, s.CallBack, s.Registered, s.Pending,
	}
}

// Period selects the time window of an assignment-stats query.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
)

// ParsePeriod accepts "all", "today" (or "day"); empty means all.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return PeriodAll, nil
	case "today", "day":
		return PeriodToday, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}
