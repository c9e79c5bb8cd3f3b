package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pren-systems/pren-lite/internal/async"
	"github.com/pren-systems/pren-lite/internal/export"
	"github.com/pren-systems/pren-lite/internal/repository"
	"github.com/pren-systems/pren-lite/internal/zone"
)

// Server bundles the read path (scores) and the ingest path (queue) behind
// one router.
type Server struct {
	scores   repository.ScoreRepository
	resolver zone.Resolver
	queue    async.Queue
	exporter *export.Service
	logger   *slog.Logger
}

func NewServer(
	scores repository.ScoreRepository,
	resolver zone.Resolver,
	queue async.Queue,
	exporter *export.Service,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if resolver == nil {
		resolver = zone.DemoResolver{}
	}
	return &Server{
		scores:   scores,
		resolver: resolver,
		queue:    queue,
		exporter: exporter,
		logger:   logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/score", s.HandleScore)
	r.Get("/explain", s.HandleExplain)
	r.Get("/health", s.HandleHealth)
	r.Post("/ingest", s.HandleIngest)
	r.Get("/signals/export", s.HandleExport)
	return r
}
