package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"priceintel/internal/cache"
	"priceintel/internal/db"
	"priceintel/internal/extractor"
	"priceintel/internal/handlers/api"
	"priceintel/internal/market"
	"priceintel/internal/matcher"
	"priceintel/internal/middleware"
)

// Deps bundles the services the routes are built from.
type Deps struct {
	DB         *db.DB
	Extractor  *extractor.Extractor
	Matcher    *matcher.Matcher
	Comparator *market.Comparator
	Cache      *cache.Cache
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Deps) {
	keywordHandler := api.NewKeywordHandler(deps.Extractor, deps.DB)
	catalogHandler := api.NewCatalogHandler(deps.Matcher)
	opportunityHandler := api.NewOpportunityHandler(deps.Comparator, deps.Cache, deps.DB)
	cacheHandler := api.NewCacheHandler(deps.Cache)
	probeHandler := api.NewProbeHandler(deps.DB)

	searchQuota := middleware.SearchQuota(s.Cfg)

	// Keyword extraction and lexicon
	s.App.Post("/api/keywords/extract", keywordHandler.Extract)
	s.App.Post("/api/keywords/:word/feedback", keywordHandler.Feedback)
	s.App.Get("/api/lexicon/report", keywordHandler.Lexicon)

	// Catalog resolution; external lookups sit behind the search quota
	s.App.Get("/api/catalog/match", searchQuota, catalogHandler.Match)
	s.App.Get("/api/catalog/suggest", catalogHandler.Suggest)

	// Price comparison
	s.App.Get("/api/opportunities", searchQuota, opportunityHandler.Search)
	s.App.Get("/api/prices/reference", opportunityHandler.PriceReference)

	// Cache observability
	s.App.Get("/api/cache/stats", cacheHandler.Stats)
	s.App.Get("/api/cache/health", cacheHandler.Health)
	s.App.Get("/api/cache/subjects", cacheHandler.TopSubjects)
	s.App.Delete("/api/cache/subjects/:subject", cacheHandler.Invalidate)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
