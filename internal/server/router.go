package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [mux.Router] internally for path variables and method matching.
type BasicRouter struct {
	mux         *mux.Router
	middlewares []Middleware
	guard       Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance with JSON 404 and 405 responses.
func NewBasicRouter() *BasicRouter {
	m := mux.NewRouter()
	m.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "not found", http.StatusNotFound)
	})
	m.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return &BasicRouter{
		mux:         m,
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Guard sets the middleware wrapped around routes that require authentication.
//
// Without a guard those routes always answer 401.
func (r *BasicRouter) Guard(guard Middleware) {
	r.guard = guard
}

// Handle registers a [http.Handler] for the specified HTTP method and path.
//
// The handler is wrapped with all registered middleware.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(path, r.Apply(handler)).Methods(method)
}

// Handler registers every [Route] of a [Handler] implementation.
//
// Routes marked RequiresAuth run behind the guard, inside the general middleware.
func (r *BasicRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		var h http.Handler = route.Handler
		if route.RequiresAuth {
			h = r.protect(h)
		}
		r.Handle(route.Method, route.Path, h)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}

func (r *BasicRouter) protect(h http.Handler) http.Handler {
	if r.guard == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			jsonError(w, "authentication required", http.StatusUnauthorized)
		})
	}
	return r.guard(h)
}
