package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/calldash/internal/common"
	"github.com/dmitrijs2005/calldash/internal/logging"
	"github.com/google/uuid"
)

// Session is what the client needs from the session manager.
type Session interface {
	APIHost(ctx context.Context) (string, error)
	Token(ctx context.Context) (string, error)
	EvictToken(ctx context.Context) error
}

// Doer is the request surface the endpoint services depend on.
type Doer interface {
	Do(ctx context.Context, method, path string, body any, headers http.Header, out any) error
}

// Client sends admin API requests on behalf of the current session.
type Client struct {
	session Session
	http    *http.Client
	logger  logging.Logger

	newRequestID func() string
}

// New returns a Client whose requests time out after timeout. A zero timeout
// leaves requests bounded only by ctx.
func New(session Session, timeout time.Duration, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		session:      session,
		http:         &http.Client{Timeout: timeout},
		logger:       logger.With("component", "httpapi"),
		newRequestID: uuid.NewString,
	}
}

// Do sends one request and decodes a 2xx body into out (when out is
// non-nil). body is JSON encoded unless it is a *Multipart.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers http.Header, out any) error {
	req, err := c.newRequest(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	reqID := req.Header.Get(common.RequestIDHeaderName)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "request done",
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Code: resp.StatusCode, Message: errorMessage(raw)}
		if resp.StatusCode == http.StatusUnauthorized {
			if err := c.session.EvictToken(ctx); err != nil {
				c.logger.Error(ctx, "token eviction failed", "error", err)
			}
		}
		c.logger.Warn(ctx, "non-2xx response", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)
		return serr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, headers http.Header) (*http.Request, error) {
	host, err := c.session.APIHost(ctx)
	if err != nil {
		return nil, fmt.Errorf("read api host: %w", err)
	}
	if host == "" {
		return nil, errors.New("api host is not configured")
	}
	url := strings.TrimRight(host, "/") + "/" + strings.TrimLeft(path, "/")

	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case *Multipart:
		reader, contentType = b.Body, b.ContentType
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader, contentType = bytes.NewReader(payload), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.UserIDHeaderName, common.UserIDHeaderValue)
	req.Header.Set(common.RequestIDHeaderName, c.newRequestID())

	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read auth token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
