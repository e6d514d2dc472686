// Package services implements [Service], the document store plus account operations
// the CLI and TUI talk to.
//
// # Backends
//
// [ProfileService] calls a tickr server over HTTP. The session token is attached as a
// bearer token by an [oauth2.Transport] built from a static token source.
//
// [LocalService] reads and writes the SQLite database directly through the
// repositories, for single-machine use without a server.
//
// # Accounts
//
// [Accounts] issues, resolves, and revokes opaque bearer tokens. The server's
// handlers and [LocalService] share it.
//
// # Error Handling
//
// Responses map onto sentinel errors so callers can branch with [errors.Is]:
//   - 404 : [store.ErrNotFound]
//   - 401, 403 : [shared.ErrNotAuthenticated]
//   - 400 : [shared.ErrInvalidInput]
//   - 409 : [shared.ErrEmailTaken]
//   - anything else, and transport failures : [shared.ErrServiceUnavailable]
package services
