package session

import (
	"context"
	"errors"
)

// Storage keys. Together they are the whole persisted session.
const (
	KeyAPIHost       = "apiHost"
	KeyAuthToken     = "authToken"
	KeyUserInfo      = "userInfo"
	KeySavedUserID   = "savedUserId"
	KeySavedPassword = "savedPassword"
	KeyRememberMe    = "rememberMe"
)

// AllKeys lists every key the session writes.
var AllKeys = []string{
	KeyAPIHost, KeyAuthToken, KeyUserInfo, KeySavedUserID, KeySavedPassword, KeyRememberMe,
}

// ErrNoSession is returned by operations that need a logged-in session when
// none is stored.
var ErrNoSession = errors.New("no active session")

// Store is the key-value persistence behind a session.
//
// Get returns (nil, nil) for a missing key. Atomic runs fn against a store
// view whose writes are applied all-or-nothing.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	Atomic(ctx context.Context, fn func(ctx context.Context, s Store) error) error
	Close() error
}
