package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/client/services"
)

// Others lists the leads of one category, optionally narrowed by search.
// Without a category it prints the available ones.
func (a *App) Others(ctx context.Context, category, search string) error {
	if category == "" {
		a.println(renderCategories())
		return nil
	}

	leads, err := a.leads.LeadsByCategory(ctx, category, 0)
	if err != nil {
		if errors.Is(err, services.ErrUnknownCategory) {
			a.println(renderCategories())
		}
		a.toast(err, "Could not load the list.")
		return err
	}

	leads = services.SearchLeads(leads, search)
	if len(leads) == 0 {
		a.println("No leads found.")
		return nil
	}
	a.println(renderLeadTable(leads))
	return nil
}

func renderCategories() string {
	cats := services.Categories()
	lines := make([]string, 0, len(cats))
	for _, c := range cats {
		lines = append(lines, fmt.Sprintf("%-18s %s", c.Name, c.Title))
	}
	return titleStyle.Render("Categories") + "\n" + strings.Join(lines, "\n")
}

// Filter edits the queue filter. "filter clear" resets it; otherwise the
// operator is asked for state, city and status, Enter keeping each empty.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) > 0 && strings.EqualFold(args[0], "clear") {
		a.filter = models.Filter{}
		a.println("Filter cleared.")
		return nil
	}

	var f models.Filter
	var err error

	if f.State, err = getSimpleText(a.reader, "State (Enter for any)", a.out); err != nil {
		return err
	}
	if f.City, err = getSimpleText(a.reader, "City (Enter for any)", a.out); err != nil {
		return err
	}
	status, err := getSimpleText(a.reader, "Status (Enter for any)", a.out)
	if err != nil {
		return err
	}
	if status != "" {
		if f.Status, err = models.ParseStatus(status); err != nil {
			a.toast(err, "Unknown status.")
			return err
		}
	}

	a.filter = f
	if f.IsZero() {
		a.println("Filter cleared.")
	} else {
		a.println(renderOK("Filter: " + f.Query()))
	}
	return nil
}

// States prints the known states with their cities.
func (a *App) States(ctx context.Context) error {
	sc, err := a.leads.StatesAndCities(ctx)
	if err != nil {
		a.toast(err, "Could not load states.")
		return err
	}
	if len(sc) == 0 {
		a.println("No states known.")
		return nil
	}

	states := make([]string, 0, len(sc))
	for s := range sc {
		states = append(states, s)
	}
	sort.Strings(states)

	t := newTable("State", "Cities")
	for _, s := range states {
		t.Row(s, strings.Join(sc[s], ", "))
	}
	a.println(t.Render())
	return nil
}

// Assign updates a lead's instruction and assigned agent.
func (a *App) Assign(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Lead ID", a.out)
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}
	return a.assignLead(ctx, id)
}

var errNotSuperAdmin = errors.New("only super-admins can reassign leads")

func (a *App) assignLead(ctx context.Context, id string) error {
	if a.profile == nil || !a.profile.IsSuperAdmin() {
		a.toast(errNotSuperAdmin, "")
		return errNotSuperAdmin
	}

	instruction, err := getSimpleText(a.reader, "Instruction", a.out)
	if err != nil {
		return err
	}
	agent, err := getSimpleText(a.reader, "Assign to", a.out)
	if err != nil {
		return err
	}

	if err := a.leads.UpdateInstructionAssignment(ctx, id, instruction, agent); err != nil {
		a.toast(err, "Could not update the assignment.")
		return err
	}
	a.println(renderOK("Assignment updated."))
	return nil
}
