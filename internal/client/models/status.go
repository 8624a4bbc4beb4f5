package models

import (
	"fmt"
	"strings"
)

// Status is the operator-assigned outcome of a call.
type Status string

const (
	StatusInterested    Status = "Interested"
	StatusNotInterested Status = "Not Interested"
	StatusBusyCallLater Status = "Busy Call Later"
	StatusDeclined      Status = "Declined"
	StatusSwitchedOff   Status = "Switched Off"
	StatusWrongNumber   Status = "Wrong Number"
	StatusNotReachable  Status = "Not Reachable"
	StatusCallBack      Status = "Call Back"
	StatusRegistered    Status = "Registered"
)

// Statuses lists every known status in picker order.
var Statuses = []Status{
	StatusInterested,
	StatusNotInterested,
	StatusBusyCallLater,
	StatusDeclined,
	StatusSwitchedOff,
	StatusWrongNumber,
	StatusNotReachable,
	StatusCallBack,
	StatusRegistered,
}

// ParseStatus resolves s case-insensitively, ignoring surrounding spaces and
// treating '-' and '_' as spaces, so "not_interested" yields
// StatusNotInterested.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	for _, st := range Statuses {
		if strings.ToLower(string(st)) == norm {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// NotifiesWhatsApp reports whether recording this status also sends the lead
// a WhatsApp message.
func (s Status) NotifiesWhatsApp() bool {
	return s == StatusInterested || s == StatusNotInterested
}

// Tag is the coarse bucket a lead belongs to.
type Tag string

const (
	TagUnregistered Tag = "unregistered"
	TagMatched      Tag = "matched"
	TagIncomplete   Tag = "incomplete"
)

// Tags lists the queues an operator can work, default first.
var Tags = []Tag{TagUnregistered, TagMatched, TagIncomplete}

// ParseTag accepts a tag name case-insensitively. An empty string selects
// the unregistered queue.
func ParseTag(s string) (Tag, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return TagUnregistered, nil
	}
	for _, t := range Tags {
		if string(t) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown queue %q", s)
}
