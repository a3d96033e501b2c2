// Package web provides the HTTP server and handlers for the product catalog UI.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/catalogview/internal/catalog"
	"github.com/JonMunkholm/catalogview/internal/config"
	"github.com/JonMunkholm/catalogview/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the catalog page and its JSON API.
type Server struct {
	cfg      *config.Config
	fetcher  *catalog.Fetcher
	store    *catalog.Store
	locale   language.Tag
	validate *validator.Validate
	limiter  *middleware.IPRateLimiter
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server serving the store behind fetcher.
func NewServer(cfg *config.Config, fetcher *catalog.Fetcher) (*Server, error) {
	locale, err := language.Parse(cfg.Catalog.CollationLocale)
	if err != nil {
		return nil, errors.Wrap(err, "parse collation locale")
	}

	s := &Server{
		cfg:      cfg,
		fetcher:  fetcher,
		store:    fetcher.Store(),
		locale:   locale,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		router:   chi.NewRouter(),
	}
	if cfg.Rate.Enabled {
		s.limiter = middleware.NewIPRateLimiter(cfg.Rate.RequestsPerMinute, cfg.Rate.Burst)
	}

	s.setupMiddleware()
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(s.securityHeaders)
}

// rateLimit throttles the refresh endpoints and the JSON API. The page,
// its fragments and static files are not limited.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return s.limiter.Middleware(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, catalog.ErrRateLimited, http.StatusTooManyRequests)
	})(next)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return errors.Wrap(err, "static files")
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.Get("/healthz", s.handleHealth)

	// Page and fragments
	s.router.Get("/", s.handlePage)
	s.router.Get("/products/rows", s.handleRows)
	s.router.With(s.rateLimit).Post("/products/refresh", s.handleRefresh)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/products", s.handleAPIProducts)
		r.Get("/categories", s.handleAPICategories)
		r.Get("/catalog/status", s.handleAPIStatus)
		r.With(middleware.APIKeyAuth(s.cfg.Security.RefreshAPIKeys, s.rejectAPIKey)).
			Post("/catalog/refresh", s.handleAPIRefresh)
	})
	return nil
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// StartBackground runs maintenance tied to ctx, such as pruning idle rate limiters.
func (s *Server) StartBackground(ctx context.Context) {
	if s.limiter != nil {
		go s.limiter.Cleanup(ctx, time.Minute)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// contentSecurityPolicy allows remote https thumbnails; scripts and styles stay same-origin.
const contentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data: https:; font-src 'self'; frame-ancestors 'none'"

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.cfg.Security.EnableCSP {
			w.Header().Set("Content-Security-Policy", contentSecurityPolicy)
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
