package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lead(id, name string, phones ...string) models.Lead {
	return models.Lead{ID: id, Name: name, PhoneNumbers: phones}
}

func TestNextLead_BuildsFilteredQuery(t *testing.T) {
	e := newEnv(t).loggedIn(t)
	e.srv.Queues[models.TagUnregistered] = []models.Lead{lead("L1", "Ravi", "9000000001")}
	svc := NewLeadService(e.api, nil, nil)

	got, err := svc.NextLead(context.Background(), models.TagUnregistered, models.Filter{State: "Tamil Nadu", City: "Chennai"})
	require.NoError(t, err)
	assert.Equal(t, "L1", got.ID)

	req, ok := e.srv.Last("/admin/unregistered-users")
	require.True(t, ok)
	assert.Equal(t, "limit=1&state=Tamil%20Nadu&city=Chennai", req.RawQuery)
}

func TestNextLead_EmptyQueue(t *testing.T) {
	e := newEnv(t).loggedIn(t)
	svc := NewLeadService(e.api, nil, nil)

	_, err := svc.NextLead(context.Background(), models.TagMatched, models.Filter{})
	require.ErrorIs(t, err, ErrNoLeads)

	req, ok := e.srv.Last("/admin/matched-users")
	require.True(t, ok)
	assert.Equal(t, "limit=1", req.RawQuery)
}

func TestNextLead_DefaultsToUnregistered(t *testing.T) {
	f := &fakeDoer{}
	svc := NewLeadService(f, nil, nil)

	_, err := svc.NextLead(context.Background(), "", models.Filter{})
	require.ErrorIs(t, err, ErrNoLeads)
	require.Len(t, f.Calls(), 1)
	assert.Equal(t, "admin/unregistered-users?limit=1", f.Calls()[0].Path)
}

func TestLeadsByCategory_StatusDispatch(t *testing.T) {
	e := newEnv(t).loggedIn(t)
	e.srv.ByStatus["Busy Call Later"] = []models.Lead{lead("L1", "A"), lead("L2", "B"), lead("L3", "C")}
	svc := NewLeadService(e.api, nil, nil)

	got, err := svc.LeadsByCategory(context.Background(), "busy-call-later", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	req, ok := e.srv.Last("/admin/users-by-status")
	require.True(t, ok)
	assert.Equal(t, "limit=2&status=Busy%20Call%20Later", req.RawQuery)
}

func TestLeadsByCategory_TitleAndTag(t *testing.T) {
	f := &fakeDoer{}
	svc := NewLeadService(f, nil, nil)
	ctx := context.Background()

	_, err := svc.LeadsByCategory(ctx, "Not Interested", 0)
	require.NoError(t, err)
	_, err = svc.LeadsByCategory(ctx, "incomplete", 0)
	require.NoError(t, err)

	calls := f.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "admin/users-by-status?status=Not%20Interested", calls[0].Path)
	assert.Equal(t, "admin/incomplete-users", calls[1].Path)
}

func TestLeadsByCategory_Unknown(t *testing.T) {
	f := &fakeDoer{}
	svc := NewLeadService(f, nil, nil)

	_, err := svc.LeadsByCategory(context.Background(), "vip", 0)
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.Empty(t, f.Calls())
}

func TestCategories_CoverStatusesAndTags(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, len(models.Statuses)+len(models.Tags))
	for i := 1; i < len(cats); i++ {
		assert.Less(t, cats[i-1].Name, cats[i].Name)
	}
	c, ok := LookupCategory("wrong number")
	require.True(t, ok)
	assert.Equal(t, "Wrong Number", c.Title)
}

func TestSearchLeads(t *testing.T) {
	leads := []models.Lead{
		{ID: "1", Name: "Priya Raman", PhoneNumbers: models.PhoneList{"9876543210"}},
		{ID: "2", Name: "Arun", PhoneNumbers: models.PhoneList{"9000011111", "8123456789"}, AssignedTo: "Meena"},
		{ID: "3", Name: "Karthik"},
	}

	ids := func(ls []models.Lead) []string {
		out := []string{}
		for _, l := range ls {
			out = append(out, l.ID)
		}
		return out
	}

	tests := []struct {
		q    string
		want []string
	}{
		{"", []string{"1", "2", "3"}},
		{"PRIYA", []string{"1"}},
		{"81234", []string{"2"}},
		{"meena", []string{"2"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ids(SearchLeads(leads, tt.q))); diff != "" {
			t.Errorf("SearchLeads(%q) mismatch (-want +got):\n%s", tt.q, diff)
		}
	}
}

func TestStatesAndCities(t *testing.T) {
	e := newEnv(t).loggedIn(t)
	e.srv.StatesAndCities = models.StatesAndCities{"Kerala": {"Kochi", "Thrissur"}}
	svc := NewLeadService(e.api, nil, nil)

	got, err := svc.StatesAndCities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, e.srv.StatesAndCities, got)
}

func TestUpdateInstructionAssignment(t *testing.T) {
	e := newEnv(t).loggedIn(t)
	svc := NewLeadService(e.api, nil, nil)

	require.NoError(t, svc.UpdateInstructionAssignment(context.Background(), "L9", " call after 5 ", "Meena"))
	require.Len(t, e.srv.Assignments, 1)
	assert.Equal(t, "call after 5", e.srv.Assignments[0].Instruction)
	assert.Equal(t, "Meena", e.srv.Assignments[0].AssignedTo)

	req, _ := e.srv.Last("/admin/update-user-instruction-assignment")
	assert.Equal(t, http.MethodPatch, req.Method)
}

func TestUpdateInstructionAssignment_ErrorsBubble(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeDoer{errs: map[string]error{"admin/update-user-instruction-assignment": boom}}
	svc := NewLeadService(f, nil, nil)

	err := svc.UpdateInstructionAssignment(context.Background(), "L1", "", "")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, httpapi.ErrUnauthorized)
}
