package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/cryptox"
	"github.com/dmitrijs2005/calldash/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// State is the auth guard's view of the session.
type State string

const (
	Unauthenticated State = "unauthenticated"
	Authenticated   State = "authenticated"
)

// ErrNoDeviceSecret is returned by Remember when the manager was built
// without a device secret to seal the password with.
var ErrNoDeviceSecret = errors.New("no device secret configured")

// Manager is the explicit session object shared by the HTTP client, the
// services and the CLI.
type Manager struct {
	store       Store
	defaultHost string
	secret      []byte
	logger      logging.Logger
	now         func() time.Time

	// mu serializes transitions so a concurrent login and logout cannot
	// interleave their writes.
	mu sync.Mutex
}

// NewManager binds a Manager to store. defaultHost is returned by APIHost
// when no override is stored; secret seals remembered passwords and may be
// nil to disable Remember.
func NewManager(store Store, defaultHost string, secret []byte, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{
		store:       store,
		defaultHost: defaultHost,
		secret:      secret,
		logger:      logger.With("component", "session"),
		now:         time.Now,
	}
}

// Token returns the stored bearer token, or "" when there is none.
func (m *Manager) Token(ctx context.Context) (string, error) {
	v, err := m.store.Get(ctx, KeyAuthToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Profile returns the stored operator profile, or nil when there is none.
func (m *Manager) Profile(ctx context.Context) (*models.Profile, error) {
	v, err := m.store.Get(ctx, KeyUserInfo)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}
	var p models.Profile
	if err := json.Unmarshal(v, &p); err != nil {
		return nil, fmt.Errorf("decode stored profile: %w", err)
	}
	return &p, nil
}

// RequireProfile is Profile that fails with ErrNoSession when logged out.
func (m *Manager) RequireProfile(ctx context.Context) (*models.Profile, error) {
	p, err := m.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNoSession
	}
	return p, nil
}

// APIHost returns the stored host override or the default host.
func (m *Manager) APIHost(ctx context.Context) (string, error) {
	v, err := m.store.Get(ctx, KeyAPIHost)
	if err != nil {
		return "", err
	}
	if h := strings.TrimSpace(string(v)); h != "" {
		return h, nil
	}
	return m.defaultHost, nil
}

// SetAPIHost stores a host override. An empty host removes the override.
func (m *Manager) SetAPIHost(ctx context.Context, host string) error {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return m.store.Delete(ctx, KeyAPIHost)
	}
	return m.store.Set(ctx, KeyAPIHost, []byte(host))
}

// Login replaces token and profile in one atomic write.
func (m *Manager) Login(ctx context.Context, token string, p models.Profile) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("login: empty token")
	}
	info, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err = m.store.Atomic(ctx, func(ctx context.Context, s Store) error {
		if err := s.Delete(ctx, KeyAuthToken, KeyUserInfo); err != nil {
			return err
		}
		if err := s.Set(ctx, KeyAuthToken, []byte(token)); err != nil {
			return err
		}
		return s.Set(ctx, KeyUserInfo, info)
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	m.logger.Info(ctx, "session started", "user", p.Username, "role", p.Role)
	return nil
}

// Logout removes every stored key, remembered credentials and host override
// included.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.logger.Info(ctx, "session cleared")
	return nil
}

// EvictToken deletes the bearer token and leaves the profile in place.
func (m *Manager) EvictToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, KeyAuthToken); err != nil {
		return fmt.Errorf("evict token: %w", err)
	}
	m.logger.Warn(ctx, "auth token evicted after unauthorized response")
	return nil
}

// State evaluates the session once. It is a poll, not a subscription.
func (m *Manager) State(ctx context.Context) (State, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return Unauthenticated, err
	}
	if token == "" {
		return Unauthenticated, nil
	}

	p, err := m.Profile(ctx)
	if err != nil {
		return Unauthenticated, err
	}
	if p == nil {
		return Unauthenticated, nil
	}

	if tokenExpired(token, m.now()) {
		return Unauthenticated, nil
	}
	return Authenticated, nil
}

// tokenExpired reports whether token is a JWT whose exp claim is in the
// past. The signature is not checked; opaque tokens never expire here.
func tokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// Remember stores creds for prefilling the next login. The password is
// sealed with the device secret.
func (m *Manager) Remember(ctx context.Context, creds models.Credentials) error {
	if m.secret == nil {
		return ErrNoDeviceSecret
	}
	sealed, err := cryptox.SealString(m.secret, creds.Password)
	if err != nil {
		return fmt.Errorf("seal password: %w", err)
	}

	return m.store.Atomic(ctx, func(ctx context.Context, s Store) error {
		if err := s.Set(ctx, KeySavedUserID, []byte(creds.UserID)); err != nil {
			return err
		}
		if err := s.Set(ctx, KeySavedPassword, []byte(sealed)); err != nil {
			return err
		}
		return s.Set(ctx, KeyRememberMe, []byte("true"))
	})
}

// Remembered returns the remembered credentials, or nil when remember-me is
// off. A password that no longer opens (device secret rotated) is dropped
// and only the user id is returned.
func (m *Manager) Remembered(ctx context.Context) (*models.Credentials, error) {
	flag, err := m.store.Get(ctx, KeyRememberMe)
	if err != nil {
		return nil, err
	}
	if string(flag) != "true" {
		return nil, nil
	}

	uid, err := m.store.Get(ctx, KeySavedUserID)
	if err != nil {
		return nil, err
	}
	creds := &models.Credentials{UserID: string(uid)}

	sealed, err := m.store.Get(ctx, KeySavedPassword)
	if err != nil {
		return nil, err
	}
	if len(sealed) > 0 && m.secret != nil {
		pw, err := cryptox.OpenString(m.secret, string(sealed))
		if err != nil {
			m.logger.Warn(ctx, "remembered password unreadable", "error", err)
		} else {
			creds.Password = pw
		}
	}
	return creds, nil
}

// Forget removes remembered credentials.
func (m *Manager) Forget(ctx context.Context) error {
	return m.store.Delete(ctx, KeySavedUserID, KeySavedPassword, KeyRememberMe)
}
