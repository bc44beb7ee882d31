package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-moderation-backend/auth"
	"github.com/rpupo63/portfolio-moderation-backend/config"
	"github.com/rpupo63/portfolio-moderation-backend/database"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Option configures the router behind a Server.
type Option func(*router)

// WithConfig overrides the environment snapshot used for ports, timeouts and origins.
func WithConfig(c map[string]string) Option {
	return func(r *router) {
		r.config = c
	}
}

// WithAuthProvider sets the provider behind the admin gate. It is required.
func WithAuthProvider(p auth.Provider) Option {
	return func(r *router) {
		r.provider = p
	}
}

func WithNotifier(n Notifier) Option {
	return func(r *router) {
		r.notifier = n
	}
}

// WithProposalStore enables storing uploaded proposals. Without it only the
// file name is kept.
func WithProposalStore(s ProposalStore) Option {
	return func(r *router) {
		r.proposals = s
	}
}

func withStartupTime(startupTime time.Time) Option {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func NewServer(database database.Database, opts ...Option) (Server, error) {
	// Capture startup time
	startupTime := time.Now()

	opts = append([]Option{WithConfig(config.New()), withStartupTime(startupTime)}, opts...)
	chiRouter, rt, err := newRouter(storesFrom(database), opts...)
	if err != nil {
		return Server{}, err
	}
	c := rt.config

	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	server := newHTTPServer(fmt.Sprintf("0.0.0.0:%s", port), chiRouter, c) // Bind to 0.0.0.0 for external access

	return Server{server, startupTime}, nil
}

// newHTTPServer builds the http.Server for handler. Request contexts are
// cancelled as soon as Shutdown begins.
func newHTTPServer(address string, handler http.Handler, c map[string]string) *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       config.GetDuration(c, "READ_TIMEOUT_SECONDS", 180*time.Second),
		// streaming handlers lift this deadline for their own connection
		WriteTimeout: config.GetDuration(c, "WRITE_TIMEOUT_SECONDS", 180*time.Second),
		IdleTimeout:  config.GetDuration(c, "IDLE_TIMEOUT_SECONDS", 180*time.Second),
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancel)
	return server
}

type router struct {
	config      map[string]string
	startupTime time.Time
	provider    auth.Provider
	notifier    Notifier
	proposals   ProposalStore
}

func newRouter(stores stores, opts ...Option) (*chi.Mux, *router, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.provider == nil {
		return nil, nil, errs.NewConfigError("auth provider", errors.New("no auth provider configured"))
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	// Apply CORS middleware
	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS", nil)
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	gate := auth.NewGate(router.provider,
		auth.WithLoginPath(config.GetString(router.config, "LOGIN_PATH", auth.DefaultLoginPath)),
		auth.WithResolveTimeout(config.GetDuration(router.config, "AUTH_RESOLVE_TIMEOUT", auth.DefaultResolveTimeout)),
	)

	// Initialize all handlers
	handlers := initializeHandlers(stores, &router)

	// Setup all route types
	setupRoutes(chiRouter, handlers, gate)

	return chiRouter, &router, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		errChannel <- err
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
