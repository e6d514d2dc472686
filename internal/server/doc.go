// Package server provides the HTTP document store: accounts, bearer-token auth, and
// per-user profile documents with atomic field mutations.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses gorilla/mux internally for path variables and method matching.
//
// # Handler Interface
//
// Handlers implement [Handler] by returning a route table. A [Route] marked
// RequiresAuth is wrapped by the router's guard ([RequireAuth]), which resolves the
// bearer token, rejects callers touching another user's {uid} with 403, and puts the
// session on the request context (see [SessionFromContext]).
//
// # Endpoints
//
//	GET    /health             no auth
//	POST   /v1/users           no auth, returns the new session and token
//	GET    /v1/me              auth
//	DELETE /v1/me/token        auth, revokes the token
//	GET    /v1/profiles/{uid}  auth, 404 until the first write
//	PATCH  /v1/profiles/{uid}  auth, body {"mutations": [...]}
//
// Every error body is {"error": "..."}.
//
// # Lifecycle
//
// [Server.Serve] runs the http.Server and a shutdown watcher in an errgroup; cancelling
// the context drains in-flight requests for up to [ShutdownTimeout].
package server
