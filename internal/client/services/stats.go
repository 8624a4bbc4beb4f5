package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/common"
	"github.com/dmitrijs2005/calldash/internal/logging"
)

// StatsService reads per-agent assignment statistics.
type StatsService interface {
	AssignmentStats(ctx context.Context, period models.Period) ([]models.AgentStats, error)
	MergedStats(ctx context.Context, period models.Period) (*MergedStats, error)
}

// MergedStats is a complete per-agent table for one period.
type MergedStats struct {
	Period models.Period
	Rows   []models.AgentStats
	// Warning is set when the master agent list could not be fetched and
	// Rows hold period data only.
	Warning error
}

type statsService struct {
	api    httpapi.Doer
	logger logging.Logger
}

func NewStatsService(api httpapi.Doer, logger logging.Logger) StatsService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &statsService{api: api, logger: logger}
}

func statsPath(period models.Period) string {
	path := common.APIPrefix + "assignment-stats"
	if period == models.PeriodToday {
		path += "?current_day=true"
	}
	return path
}

func (s *statsService) AssignmentStats(ctx context.Context, period models.Period) ([]models.AgentStats, error) {
	var resp httpapi.Envelope[[]models.AgentStats]
	if err := s.api.Do(ctx, http.MethodGet, statsPath(period), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("assignment stats (%s): %w", period, err)
	}
	return resp.Data, nil
}

// MergedStats fetches the all-time agent list and the period's stats and
// merges them so idle agents still show up. A failed master fetch does not
// fail the call: it is logged and returned as Warning.
func (s *statsService) MergedStats(ctx context.Context, period models.Period) (*MergedStats, error) {
	out := &MergedStats{Period: period}

	// the all-time window is its own master list
	if period == models.PeriodAll {
		rows, err := s.AssignmentStats(ctx, models.PeriodAll)
		if err != nil {
			return nil, err
		}
		out.Rows = MergeStats(AgentNames(rows), rows)
		return out, nil
	}

	var master []string
	all, err := s.AssignmentStats(ctx, models.PeriodAll)
	if err != nil {
		s.logger.Warn(ctx, "agent master list unavailable, showing period data only", "error", err)
		out.Warning = err
	} else {
		master = AgentNames(all)
	}

	rows, err := s.AssignmentStats(ctx, period)
	if err != nil {
		return nil, err
	}
	out.Rows = MergeStats(master, rows)
	return out, nil
}

// AgentNames returns the distinct agent names in rows, in order.
func AgentNames(rows []models.AgentStats) []string {
	seen := make(map[string]struct{}, len(rows))
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		n := strings.TrimSpace(r.Name)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}

// MergeStats returns one row per agent in master, taking the period row when
// there is one and a zero row otherwise. Period rows for agents outside
// master are kept. The result is sorted by agent name, case-insensitively.
func MergeStats(master []string, period []models.AgentStats) []models.AgentStats {
	byName := make(map[string]models.AgentStats, len(period))
	order := make([]string, 0, len(master)+len(period))

	for _, r := range period {
		n := strings.TrimSpace(r.Name)
		if n == "" {
			continue
		}
		if _, dup := byName[n]; dup {
			continue
		}
		r.Name = n
		byName[n] = r
		order = append(order, n)
	}
	for _, n := range master {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := byName[n]; ok {
			continue
		}
		byName[n] = models.AgentStats{Name: n}
		order = append(order, n)
	}

	out := make([]models.AgentStats, 0, len(order))
	for _, n := range order {
		out = append(out, byName[n])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Name < out[j].Name
	})
	return out
}
