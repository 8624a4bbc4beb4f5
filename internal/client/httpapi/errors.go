package httpapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrHTTPStatus   = errors.New("unexpected http status")
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("http %d %s", e.Code, http.StatusText(e.Code))
}

// Is makes every StatusError match ErrHTTPStatus, and a 401 additionally
// match ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrHTTPStatus:
		return true
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	}
	return false
}
