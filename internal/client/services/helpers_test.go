package services

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/dmitrijs2005/calldash/internal/client/apitest"
	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/session"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

type env struct {
	srv     *apitest.Server
	session *session.Manager
	api     *httpapi.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := apitest.New(t)

	store, err := session.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m := session.NewManager(store, srv.URL, []byte("0123456789abcdef0123456789abcdef"), nil)
	return &env{srv: srv, session: m, api: httpapi.New(m, 0, nil)}
}

// loggedIn stores the token the fake accepts.
func (e *env) loggedIn(t *testing.T) *env {
	t.Helper()
	require.NoError(t, e.session.Login(context.Background(), apitest.Token, e.srv.Profile))
	return e
}

// ---- fake doer ----

type call struct {
	Method string
	Path   string
	Body   any
}

// fakeDoer records calls and answers from a per-path script.
type fakeDoer struct {
	mu    sync.Mutex
	calls []call
	errs  map[string]error
	// block, when set, is waited on inside Do.
	block chan struct{}
	// started is signalled when Do begins.
	started chan struct{}
}

func (f *fakeDoer) Do(ctx context.Context, method, path string, body any, headers http.Header, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})
	err := f.errs[path]
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return err
}

func (f *fakeDoer) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}
