package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
	cardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
	toastStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	headStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
)

// renderLeadCard shows the lead being worked on.
func renderLeadCard(l models.Lead) string {
	lines := []string{titleStyle.Render(l.Name)}

	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		lines = append(lines, labelStyle.Render(label)+value)
	}
	field("Phone", l.PhoneNumbers.String())
	field("Status", string(l.Status))
	field("Instruction", l.Instruction)
	field("Feedback", l.Feedback)
	field("Assigned to", l.AssignedTo)
	field("Tag", string(l.Tag))
	if l.Priority > 0 {
		field("Priority", strconv.Itoa(l.Priority))
	}
	if !l.CreatedAt.IsZero() {
		field("Created", l.CreatedAt.Format("2006-01-02 15:04"))
	}
	field("ID", l.ID)

	return cardStyle.Render(strings.Join(lines, "\n"))
}

// renderProfile shows the logged-in operator.
func renderProfile(p models.Profile, host string) string {
	lines := []string{
		titleStyle.Render(p.Username),
		labelStyle.Render("Email") + p.Email,
		labelStyle.Render("Role") + p.Role,
		labelStyle.Render("Admin ID") + p.AdminID,
		labelStyle.Render("API host") + host,
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headStyle
			}
			return cellStyle
		})
}

// renderStatsTable lays the merged per-agent stats out as a table.
func renderStatsTable(rows []models.AgentStats) string {
	headers := append([]string{"Agent"}, models.StatsColumns...)
	t := newTable(headers...)
	for _, r := range rows {
		cells := []string{r.Name}
		for _, v := range r.Values() {
			cells = append(cells, strconv.Itoa(v))
		}
		t.Row(cells...)
	}
	return t.Render()
}

// renderLeadTable lists leads one per row.
func renderLeadTable(leads []models.Lead) string {
	t := newTable("#", "Name", "Phone", "Status", "Assigned to")
	for i, l := range leads {
		t.Row(strconv.Itoa(i+1), l.Name, l.PhoneNumbers.String(), string(l.Status), l.AssignedTo)
	}
	return t.Render()
}

// renderPicker is a numbered list of options under a title.
func renderPicker(title string, options []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for i, o := range options {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, o)
	}
	return b.String()
}

func renderToast(msg string) string {
	return toastStyle.Render("! " + msg)
}

func renderOK(msg string) string {
	return okStyle.Render(msg)
}

// toastMessage picks the text shown for a failed action: the server's
// message when there is one, the error text otherwise, and fallback when
// neither says anything.
func toastMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if errors.Is(err, httpapi.ErrUnauthorized) {
		return "Session expired. Please log in again."
	}
	if errors.Is(err, httpapi.ErrUnavailable) {
		return "Server unreachable. " + fallback
	}
	var serr *httpapi.StatusError
	if errors.As(err, &serr) && serr.Message != "" {
		return serr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
