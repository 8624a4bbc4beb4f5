// Package common contains shared constants and byte helpers used across
// calldash components.
package common

const (
	// UserIDHeaderName and UserIDHeaderValue form the fixed caller marker the
	// admin API expects on every request.
	UserIDHeaderName  = "X-User-Id"
	UserIDHeaderValue = "ADMIN"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-Id"

	// APIPrefix is prepended to every admin endpoint path.
	APIPrefix = "admin/"
)
