package session

import (
	"context"

	"github.com/dmitrijs2005/calldash/internal/client/models"
)

// Guard evaluates the session once at startup. It returns the stored profile
// when the session is Authenticated and (nil, ErrNoSession) otherwise. A
// session that has a profile but no usable token is reported as logged out
// so the caller routes to login.
func (m *Manager) Guard(ctx context.Context) (*models.Profile, error) {
	st, err := m.State(ctx)
	if err != nil {
		return nil, err
	}
	if st != Authenticated {
		m.logger.Debug(ctx, "guard: no usable session")
		return nil, ErrNoSession
	}
	return m.RequireProfile(ctx)
}
