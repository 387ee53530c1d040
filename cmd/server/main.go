package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"priceintel/internal/cache"
	"priceintel/internal/clients"
	"priceintel/internal/config"
	"priceintel/internal/db"
	"priceintel/internal/extractor"
	"priceintel/internal/jobs"
	"priceintel/internal/logging"
	"priceintel/internal/market"
	"priceintel/internal/matcher"
	"priceintel/internal/metrics"
	"priceintel/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger := logging.New(cfg.IsDev())

	scoring, err := config.LoadScoring(cfg.ScoringFile)
	if err != nil {
		log.Fatalf("Failed to load scoring config: %v", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if cfg.IsDev() {
		if err := database.SeedDevCatalog(ctx); err != nil {
			log.Printf("Warning: failed to seed dev catalog: %v", err)
		}
	}

	metrics.Init(database)

	// Marketplace auth is optional; without credentials the client runs
	// anonymously.
	var tokenSource oauth2.TokenSource
	if cfg.MarketplaceClientID != "" && cfg.MarketplaceTokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.MarketplaceClientID,
			ClientSecret: cfg.MarketplaceClientSecret,
			TokenURL:     cfg.MarketplaceTokenURL,
		}
		tokenSource = cc.TokenSource(ctx)
	}

	// Services
	ex := extractor.New(database)
	catalogClient := clients.NewCatalogClient(cfg.CatalogBaseURL, logger)
	marketplaceClient := clients.NewMarketplaceClient(cfg.MarketplaceBaseURL, tokenSource, logger)
	catalogMatcher := matcher.New(database, catalogClient, ex, scoring, logger)
	comparator := market.NewComparator(database, marketplaceClient, scoring, logger)
	queryCache := cache.New(database, cfg.CacheCapacity, cfg.CacheTTL, logger)

	// Background cache maintenance
	maintainer := jobs.NewCacheMaintainer(queryCache, 1*time.Hour)
	go maintainer.Start(ctx)

	// HTTP server
	srv := server.New(cfg)
	srv.RegisterRoutes(server.Deps{
		DB:         database,
		Extractor:  ex,
		Matcher:    catalogMatcher,
		Comparator: comparator,
		Cache:      queryCache,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
