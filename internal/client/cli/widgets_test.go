package cli

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestToastMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "fallback"},
		{"unauthorized", fmt.Errorf("next: %w", &httpapi.StatusError{Code: http.StatusUnauthorized, Message: "jwt expired"}), "Session expired. Please log in again."},
		{"unavailable", fmt.Errorf("%w: dial tcp", httpapi.ErrUnavailable), "Server unreachable. fallback"},
		{"server message", fmt.Errorf("save: %w", &httpapi.StatusError{Code: 500, Message: "Database down"}), "Database down"},
		{"plain error", errors.New("status is required"), "status is required"},
		{"blank error", errors.New("  "), "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toastMessage(tt.err, "fallback"))
		})
	}
}

func TestRenderLeadCard(t *testing.T) {
	out := renderLeadCard(models.Lead{
		ID:           "L1",
		Name:         "Priya",
		PhoneNumbers: models.PhoneList{"111", "222"},
		Status:       models.StatusCallBack,
		Priority:     2,
	})

	assert.Contains(t, out, "Priya")
	assert.Contains(t, out, "111, 222")
	assert.Contains(t, out, "Call Back")
	assert.Contains(t, out, "L1")
	assert.NotContains(t, out, "Feedback")
}

func TestRenderStatsTable(t *testing.T) {
	out := renderStatsTable([]models.AgentStats{
		{Name: "Ravi", Total: 7, Interested: 3},
		{Name: "Zoya"},
	})

	assert.Contains(t, out, "Agent")
	assert.Contains(t, out, "Not Interested")
	assert.Contains(t, out, "Ravi")
	assert.Contains(t, out, "Zoya")
}

func TestRenderPicker(t *testing.T) {
	out := renderPicker("Pick", []string{"a", "b"})
	assert.Contains(t, out, "1) a")
	assert.Contains(t, out, "2) b")
}
