// package server contains middleware & handlers for the tickr document store service
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tickr/internal/services"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/desertthunder/tickr/internal/store"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Route is one entry of a [Handler]'s route table.
type Route struct {
	Method       string
	Path         string
	Handler      http.HandlerFunc
	RequiresAuth bool
}

// Handler defines the interface for HTTP request handlers in the document store service.
// Implementations own a set of endpoints (accounts, profiles).
type Handler interface {
	Routes() []Route // Routes returns the route table this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// ShutdownTimeout bounds how long in-flight requests get after the context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Server is the document store HTTP server.
type Server struct {
	addr   string
	router *BasicRouter
	logger *log.Logger
}

// New wires the router, middleware and handlers for a server listening on cfg.Addr().
func New(cfg shared.ServerConfig, accounts *services.Accounts, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	logger = shared.WithLogger(logger, "component", "server")

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	router := NewBasicRouter()
	router.Use(Logging(logger), RateLimit(rate.NewLimiter(limit, burst)))
	router.Guard(RequireAuth(accounts))
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(health))
	router.Handler(NewAccountHandler(accounts, logger))
	router.Handler(NewProfileHandler(st, logger))

	return &Server{addr: cfg.Addr(), router: router, logger: logger}
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe listens on the configured address and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	})

	return g.Wait()
}
