package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/calldash/internal/client/apitest"
	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_StoresSession(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)
	ctx := context.Background()

	p, err := svc.Login(ctx, " "+apitest.Email+" ", apitest.Password)
	require.NoError(t, err)
	assert.Equal(t, e.srv.Profile, *p)

	tok, err := e.session.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, apitest.Token, tok)

	st, err := e.session.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, st)
}

func TestLogin_BadPassword(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)

	_, err := svc.Login(context.Background(), apitest.Email, "nope")
	require.ErrorIs(t, err, httpapi.ErrUnauthorized)

	st, err := e.session.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.Unauthenticated, st)
}

func TestLogin_EmptyFieldsSendNothing(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)

	_, err := svc.Login(context.Background(), "", "x")
	require.Error(t, err)
	assert.Zero(t, e.srv.Calls("/admin/login"))
}

func TestOTPFlow(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)
	ctx := context.Background()

	require.NoError(t, svc.SendOTP(ctx, apitest.Email))
	assert.Equal(t, []string{apitest.Email}, e.srv.OTPRequests)

	_, err := svc.VerifyOTP(ctx, apitest.Email, "000000")
	require.ErrorIs(t, err, httpapi.ErrUnauthorized)

	p, err := svc.VerifyOTP(ctx, apitest.Email, apitest.OTP)
	require.NoError(t, err)
	assert.Equal(t, apitest.Email, p.Email)

	st, err := e.session.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Authenticated, st)
}

func TestSendOTP_UnknownEmail(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(e.api, e.session, nil)

	err := svc.SendOTP(context.Background(), "who@example.com")
	require.ErrorIs(t, err, httpapi.ErrHTTPStatus)
}

func TestLogout_ClearsSessionAndNextCallIsAnonymous(t *testing.T) {
	e := newEnv(t).loggedIn(t)
	svc := NewAuthService(e.api, e.session, nil)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx))

	_, err := e.session.Guard(ctx)
	require.ErrorIs(t, err, session.ErrNoSession)

	err = e.api.Do(ctx, http.MethodGet, "admin/states_and_city", nil, nil, nil)
	require.ErrorIs(t, err, httpapi.ErrUnauthorized)
	req, ok := e.srv.Last("/admin/states_and_city")
	require.True(t, ok)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestUnauthorizedResponseEvictsOnlyToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.session.Login(ctx, "expired-on-server", e.srv.Profile))

	leads := NewLeadService(e.api, nil, nil)
	_, err := leads.StatesAndCities(ctx)
	require.ErrorIs(t, err, httpapi.ErrUnauthorized)

	tok, err := e.session.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	p, err := e.session.Profile(ctx)
	require.NoError(t, err)
	require.NotNil(t, p, "profile stays behind after a 401")
}
