package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/semaphore"

	"github.com/nao1215/smartpass/internal/attack"
	"github.com/nao1215/smartpass/internal/classifier"
	"github.com/nao1215/smartpass/internal/config"
	"github.com/nao1215/smartpass/internal/credential"
	"github.com/nao1215/smartpass/internal/database"
	"github.com/nao1215/smartpass/internal/hasher"
	"github.com/nao1215/smartpass/internal/wordlist"
)

const (
	// shutdownTimeout bounds graceful shutdown once the context is done.
	shutdownTimeout = 10 * time.Second

	// readHeaderTimeout bounds reading request headers.
	readHeaderTimeout = 10 * time.Second

	// maxBodySize caps request bodies.
	maxBodySize = 1 << 20
)

// Store persists generated credentials and attack results.
// *database.Store implements it.
type Store interface {
	InsertCredential(ctx context.Context, c credential.Credential) (int64, error)
	InsertAttackResult(ctx context.Context, rec *database.AttackRecord) (int64, error)
	LatestResumePosition(ctx context.Context, digest, source string) (uint64, error)
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators of a Server.
type Dependencies struct {
	Hasher     *hasher.Hasher
	Classifier *classifier.Classifier
	Resolver   *wordlist.Resolver

	// Generator produces credentials for /generer. Built from Hasher when nil.
	Generator *credential.Generator

	// Store is optional; nil disables persistence and resuming.
	Store Store
}

// Server is the SmartPass HTTP service.
type Server struct {
	cfg        *config.Config
	hasher     *hasher.Hasher
	classifier *classifier.Classifier
	resolver   *wordlist.Resolver
	generator  *credential.Generator
	store      Store

	bruteForce *attack.BruteForce
	dictionary *attack.Dictionary

	// sem limits the number of attacks running at once.
	sem *semaphore.Weighted

	logger        *slog.Logger
	engineOptions []attack.Option
	handler       http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for the server and its engines.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEngineOptions passes options to both attack engines.
func WithEngineOptions(opts ...attack.Option) Option {
	return func(s *Server) {
		s.engineOptions = append(s.engineOptions, opts...)
	}
}

// New builds a Server and validates its route table.
func New(cfg *config.Config, deps Dependencies, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config", ErrMissingDependency)
	}
	if deps.Hasher == nil || deps.Classifier == nil || deps.Resolver == nil {
		return nil, fmt.Errorf("%w: hasher, classifier and resolver are required", ErrMissingDependency)
	}

	s := &Server{
		cfg:        cfg,
		hasher:     deps.Hasher,
		classifier: deps.Classifier,
		resolver:   deps.Resolver,
		generator:  deps.Generator,
		store:      deps.Store,
		sem:        semaphore.NewWeighted(int64(cfg.MaxConcurrentAttacks)),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.generator == nil {
		g, err := credential.NewGenerator(s.hasher)
		if err != nil {
			return nil, err
		}
		s.generator = g
	}

	engineOpts := append([]attack.Option{attack.WithLogger(s.logger)}, s.engineOptions...)
	s.bruteForce = attack.NewBruteForce(s.hasher, engineOpts...)
	s.dictionary = attack.NewDictionary(s.hasher, engineOpts...)

	router, err := newRouter(s.routes(), http.HandlerFunc(s.handleNotFound))
	if err != nil {
		return nil, err
	}
	router.Use(s.logRequests)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
	s.handler = gziphandler.GzipHandler(corsHandler)

	return s, nil
}

// Handler returns the full middleware chain of s.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is done, then shuts down gracefully.
// The listener is capped at MaxConnections open connections when positive.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      s.cfg.RequestTimeout + readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info("HTTP server listening",
		"addr", ln.Addr().String(),
		"cors_origins", s.cfg.CORSOrigins,
		"max_concurrent_attacks", s.cfg.MaxConcurrentAttacks,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

// acquire waits for an attack slot. The returned release must be called
// once the attack is over.
func (s *Server) acquire(ctx context.Context) (func(), error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return func() { s.sem.Release(1) }, nil
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests logs every request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := ""
		if cur := mux.CurrentRoute(r); cur != nil {
			route = cur.GetName()
		}
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
