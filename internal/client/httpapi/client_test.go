package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/calldash/internal/client/apitest"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	host    string
	token   string
	evicted int
	hostErr error
}

func (f *fakeSession) APIHost(context.Context) (string, error) { return f.host, f.hostErr }
func (f *fakeSession) Token(context.Context) (string, error)   { return f.token, nil }
func (f *fakeSession) EvictToken(context.Context) error {
	f.evicted++
	f.token = ""
	return nil
}

func newClient(sess *fakeSession) *Client {
	c := New(sess, 0, nil)
	c.newRequestID = func() string { return "req-1" }
	return c
}

func TestDo_SetsHeadersAndDecodesEnvelope(t *testing.T) {
	srv := apitest.New(t)
	srv.StatesAndCities = models.StatesAndCities{"Kerala": {"Kochi"}}
	sess := &fakeSession{host: srv.URL + "/", token: apitest.Token}

	var out Envelope[models.StatesAndCities]
	err := newClient(sess).Do(context.Background(), http.MethodGet, "admin/states_and_city", nil, nil, &out)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, []string{"Kochi"}, out.Data["Kerala"])

	req, ok := srv.Last("/admin/states_and_city")
	require.True(t, ok)
	assert.Equal(t, "Bearer "+apitest.Token, req.Header.Get("Authorization"))
	assert.Equal(t, common.UserIDHeaderValue, req.Header.Get(common.UserIDHeaderName))
	assert.Equal(t, "req-1", req.Header.Get(common.RequestIDHeaderName))
	assert.Zero(t, sess.evicted)
}

func TestDo_NoTokenOmitsAuthorization(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	err := newClient(&fakeSession{host: ts.URL}).Do(context.Background(), http.MethodGet, "admin/x", nil, nil, nil)
	require.NoError(t, err)
	_, present := got["Authorization"]
	assert.False(t, present)
	assert.Equal(t, common.UserIDHeaderValue, got.Get(common.UserIDHeaderName))
}

func TestDo_JSONBody(t *testing.T) {
	var (
		ct   string
		body map[string]string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer ts.Close()

	err := newClient(&fakeSession{host: ts.URL}).Do(context.Background(), http.MethodPut, "admin/update-feedback",
		map[string]string{"id": "L1"}, http.Header{"X-Extra": {"1"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", ct)
	assert.Equal(t, map[string]string{"id": "L1"}, body)
}

func TestDo_MultipartPassesThrough(t *testing.T) {
	var (
		ct    string
		email string
		file  string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		email = r.FormValue("email")
		f, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(f)
		file = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	mp, err := NewMultipart([][2]string{{"email", "boss@example.com"}},
		FilePart{Field: "file", FileName: "stats.xlsx", Data: []byte("xlsx-bytes")})
	require.NoError(t, err)

	err = newClient(&fakeSession{host: ts.URL}).Do(context.Background(), http.MethodPost, "admin/upload", mp, nil, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, "multipart/form-data; boundary="), ct)
	assert.Equal(t, "boss@example.com", email)
	assert.Equal(t, "xlsx-bytes", file)
}

func TestDo_401EvictsToken(t *testing.T) {
	srv := apitest.New(t)
	sess := &fakeSession{host: srv.URL, token: "stale"}

	err := newClient(sess).Do(context.Background(), http.MethodGet, "admin/states_and_city", nil, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, ErrHTTPStatus)
	assert.Equal(t, 1, sess.evicted)

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusUnauthorized, serr.Code)
	assert.Equal(t, "invalid token", serr.Message)
}

func TestDo_500KeepsToken(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail("/admin/assignment-stats", http.StatusInternalServerError)
	sess := &fakeSession{host: srv.URL, token: apitest.Token}

	err := newClient(sess).Do(context.Background(), http.MethodGet, "admin/assignment-stats", nil, nil, nil)
	require.ErrorIs(t, err, ErrHTTPStatus)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, sess.evicted)
	assert.Equal(t, apitest.Token, sess.token)
}

func TestDo_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := newClient(&fakeSession{host: url}).Do(context.Background(), http.MethodGet, "admin/x", nil, nil, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_HostErrors(t *testing.T) {
	err := newClient(&fakeSession{}).Do(context.Background(), http.MethodGet, "admin/x", nil, nil, nil)
	require.Error(t, err)

	boom := errors.New("store down")
	err = newClient(&fakeSession{hostErr: boom}).Do(context.Background(), http.MethodGet, "admin/x", nil, nil, nil)
	require.ErrorIs(t, err, boom)
}

func TestStatusError_Message(t *testing.T) {
	assert.Equal(t, "http 404 Not Found", (&StatusError{Code: 404}).Error())
	assert.Equal(t, "http 400: bad", (&StatusError{Code: 400, Message: "bad"}).Error())
}
