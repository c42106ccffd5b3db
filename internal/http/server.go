package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/cinesaver/cinesaver/internal/config"
	"github.com/cinesaver/cinesaver/internal/domain"
	"github.com/cinesaver/cinesaver/internal/geo"
	"github.com/cinesaver/cinesaver/internal/search"
)

// Searcher handles the primary showtime search flow.
type Searcher interface {
	Search(ctx context.Context, q domain.SearchQuery) (*search.Result, error)
}

// DossierBuilder assembles review dossiers by title.
type DossierBuilder interface {
	Build(ctx context.Context, title string) (*domain.Dossier, error)
}

// Suggester serves autocomplete shortlists.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]domain.CandidateSuggestion, error)
}

// Trender regenerates the per-city trending list.
type Trender interface {
	Trending(ctx context.Context, city string) []domain.TrendingMovie
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg      config.Config
	search   Searcher
	dossiers DossierBuilder
	suggest  Suggester
	trending Trender
	geocoder geo.Client
	logger   zerolog.Logger
	router   chi.Router
	httpSrv  *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, searcher Searcher, dossiers DossierBuilder, suggester Suggester, trender Trender, geocoder geo.Client, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{
		cfg:      cfg,
		search:   searcher,
		dossiers: dossiers,
		suggest:  suggester,
		trending: trender,
		geocoder: geocoder,
		logger:   logger,
		router:   r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Post("/search", s.handleSearch)
	s.router.Get("/suggestions", s.handleSuggestions)
	s.router.Get("/dossiers/{title}", s.handleDossier)
	s.router.Get("/trending", s.handleTrending)
	s.router.Get("/geo/reverse", s.handleReverseGeocode)
}

// Start boots the HTTP server and blocks until shutdown or failure.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
