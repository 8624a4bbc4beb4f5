// Package session owns the operator's persisted session: the API host
// override, the bearer token, the profile and the opt-in remembered
// credentials.
//
// Storage is pluggable (see Store): SQLiteStore keeps everything in a local
// file, RedisStore shares it between hosts. Manager is the single object the
// rest of the client receives; nothing else reads the store directly.
//
// # Lifecycle
//
//   - Login stores token and profile together, clearing both first.
//   - EvictToken drops only the token; the HTTP client calls it on a 401.
//   - Logout removes every key.
//
// State reports Authenticated only when both token and profile are present
// and the token, if it is a JWT, has not expired.
package session
