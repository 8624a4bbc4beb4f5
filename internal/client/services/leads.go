package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/common"
	"github.com/dmitrijs2005/calldash/internal/logging"
)

// LeadService reads leads and edits their assignment.
type LeadService interface {
	NextLead(ctx context.Context, tag models.Tag, f models.Filter) (*models.Lead, error)
	LeadsByCategory(ctx context.Context, category string, limit int) ([]models.Lead, error)
	StatesAndCities(ctx context.Context) (models.StatesAndCities, error)
	UpdateInstructionAssignment(ctx context.Context, leadID, instruction, assignedTo string) error
}

// Category is one browsable lead list.
type Category struct {
	Name  string
	Title string
	path  string
	query url.Values
}

// categories is the dispatch table behind LeadsByCategory: one row per
// status list plus one per queue tag.
var categories = buildCategories()

func buildCategories() map[string]Category {
	m := make(map[string]Category, len(models.Statuses)+len(models.Tags))
	for _, st := range models.Statuses {
		name := slug(string(st))
		m[name] = Category{
			Name:  name,
			Title: string(st),
			path:  "users-by-status",
			query: url.Values{"status": {string(st)}},
		}
	}
	for _, tag := range models.Tags {
		name := string(tag)
		m[name] = Category{
			Name:  name,
			Title: strings.ToUpper(name[:1]) + name[1:],
			path:  tagPath(tag),
		}
	}
	return m
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

func tagPath(tag models.Tag) string {
	return string(tag) + "-users"
}

// Categories returns the browsable categories sorted by name.
func Categories() []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupCategory resolves a category by slug or by display title.
func LookupCategory(name string) (Category, bool) {
	c, ok := categories[slug(name)]
	return c, ok
}

type leadService struct {
	api      httpapi.Doer
	inflight *InFlight
	logger   logging.Logger
}

// NewLeadService constructs a LeadService. guard may be shared with other
// services; nil gets a private one.
func NewLeadService(api httpapi.Doer, guard *InFlight, logger logging.Logger) LeadService {
	if guard == nil {
		guard = NewInFlight()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &leadService{api: api, inflight: guard, logger: logger}
}

// NextLead asks the server for the head of the tag queue narrowed by f.
// There is no local cursor: every call is a fresh query.
func (s *leadService) NextLead(ctx context.Context, tag models.Tag, f models.Filter) (*models.Lead, error) {
	if tag == "" {
		tag = models.TagUnregistered
	}
	path := common.APIPrefix + tagPath(tag) + "?limit=1"
	if q := f.Query(); q != "" {
		path += "&" + q
	}

	var resp httpapi.Envelope[[]models.Lead]
	if err := s.api.Do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("next %s lead: %w", tag, err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoLeads
	}
	lead := resp.Data[0]
	return &lead, nil
}

// LeadsByCategory lists the leads of one category. limit <= 0 means the
// server default.
func (s *leadService) LeadsByCategory(ctx context.Context, category string, limit int) ([]models.Lead, error) {
	c, ok := LookupCategory(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	q := url.Values{}
	for k, v := range c.query {
		q[k] = v
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := common.APIPrefix + c.path
	if enc := q.Encode(); enc != "" {
		path += "?" + strings.ReplaceAll(enc, "+", "%20")
	}

	var resp httpapi.Envelope[[]models.Lead]
	if err := s.api.Do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.Name, err)
	}
	return resp.Data, nil
}

// SearchLeads filters leads locally: a case-insensitive substring match on
// name, any phone number or the assigned agent. An empty query keeps all.
func SearchLeads(leads []models.Lead, q string) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if l.Matches(q) {
			out = append(out, l)
		}
	}
	return out
}

func (s *leadService) StatesAndCities(ctx context.Context) (models.StatesAndCities, error) {
	var resp httpapi.Envelope[models.StatesAndCities]
	if err := s.api.Do(ctx, http.MethodGet, common.APIPrefix+"states_and_city", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("states and cities: %w", err)
	}
	if resp.Data == nil {
		return models.StatesAndCities{}, nil
	}
	return resp.Data, nil
}

func (s *leadService) UpdateInstructionAssignment(ctx context.Context, leadID, instruction, assignedTo string) error {
	if strings.TrimSpace(leadID) == "" {
		return fmt.Errorf("update assignment: empty lead id")
	}
	body := map[string]string{
		"id":          leadID,
		"instruction": strings.TrimSpace(instruction),
		"assignedTo":  strings.TrimSpace(assignedTo),
	}
	return s.inflight.Do("assign:"+leadID, func() error {
		err := s.api.Do(ctx, http.MethodPatch, common.APIPrefix+"update-user-instruction-assignment", body, nil, nil)
		if err != nil {
			s.logger.Warn(ctx, "assignment update failed", "lead", leadID, "error", err)
			return fmt.Errorf("update assignment: %w", err)
		}
		return nil
	})
}
