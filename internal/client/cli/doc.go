// Package cli provides the interactive calling dashboard client.
//
// It wires configuration, the session store, the admin API services and a
// REPL. The auth guard runs once at start: a stored, unexpired session skips
// the login prompt.
//
// Commands
//
//   - login / otp / logout / whoami / host [url]
//   - queue [tag]: work the lead queue one lead at a time
//   - filter [clear]: narrow the queue by state, city and status
//   - others <category> [search]: browse leads by category
//   - stats [today|all], export <email> [today|all]
//   - assign: change a lead's instruction and agent (super-admin)
//   - states: list states and cities
//
// Failures never end the session. They are shown as a one-line toast and
// the REPL keeps running.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
