package http

import (
	"github.com/fitmatch-tech/catalog-backend/internal/usecase"
	"github.com/fitmatch-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(ingestUC usecase.IngestUC, recommendUC usecase.RecommendUC, tryonUC usecase.TryOnUC) {
	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerIngestRoutes(v1, NewIngestHandler(ingestUC, r.logger))
		registerRecommendRoutes(v1, NewRecommendHandler(recommendUC, r.logger))
		registerTryOnRoutes(v1, NewTryOnHandler(tryonUC, r.logger))
	})
}

func registerIngestRoutes(router chi.Router, handler *IngestHandler) {
	router.Route("/ingest", func(in chi.Router) {
		in.Post("/scrape", handler.scrapeAll)
		in.Post("/scrape/{source}", handler.scrape)
		in.Post("/index", handler.indexAll)
		in.Post("/index/{source}", handler.index)
	})
}

func registerRecommendRoutes(router chi.Router, handler *RecommendHandler) {
	router.Post("/recommend/complementary", handler.complementary)
	router.Get("/catalog", handler.browse)
	router.Post("/search", handler.search)
}

func registerTryOnRoutes(router chi.Router, handler *TryOnHandler) {
	router.Post("/tryon", handler.tryOn)
}
