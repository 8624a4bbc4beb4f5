// Package httpapi is the single HTTP gateway to the calling dashboard admin
// API.
//
// Every request is built as <apiHost>/<path>, where the host comes from the
// session. Requests carry the fixed X-User-Id header, a fresh X-Request-Id
// and, when the session holds one, an Authorization bearer token. There is
// no fallback token: an anonymous request simply goes out without the
// header.
//
// # Error Handling
//
// Callers match conditions with errors.Is:
//
//   - ErrUnavailable: the request never produced a response.
//   - ErrHTTPStatus: any non-2xx response (the concrete *StatusError carries
//     the code and the server message).
//   - ErrUnauthorized: a 401. Before returning it the client evicts the
//     stored token; nothing else about the session changes.
//
// There is no retry and no backoff.
package httpapi
