package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/kgsearch/pkg/api"
	"github.com/platinummonkey/kgsearch/pkg/async"
	"github.com/platinummonkey/kgsearch/pkg/auth"
	"github.com/platinummonkey/kgsearch/pkg/citation"
	"github.com/platinummonkey/kgsearch/pkg/config"
	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/kgclient"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/search"
	"github.com/platinummonkey/kgsearch/pkg/sitemap"
	"github.com/platinummonkey/kgsearch/pkg/translate"
	"github.com/platinummonkey/kgsearch/pkg/translation"
)

var version = "dev"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout).
		WithField("service", cfg.Observability.OTelServiceName)

	ctx := context.Background()
	providers, err := observability.InitOTel(ctx, cfg.Observability.OTel(), logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize OpenTelemetry")
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	kg, err := kgclient.New(cfg.KG,
		kgclient.WithLogger(logger),
		kgclient.WithRetryObserver(metrics.ObserveKGRetry),
	)
	if err != nil {
		logger.WithError(err).Error("Failed to create KG client")
		os.Exit(1)
	}
	es, err := elastic.New(cfg.Elastic, elastic.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Error("Failed to create search engine client")
		os.Exit(1)
	}

	citationOpts := []citation.Option{
		citation.WithLogger(logger),
		citation.WithCacheObserver(metrics.ObserveCitationCache),
	}
	var store *citation.RedisStore
	if cfg.Redis.URL != "" {
		store, err = citation.NewRedisStore(cfg.Redis)
		if err != nil {
			// the in-memory cache still serves a single replica
			logger.WithError(err).Warn("Shared citation cache unavailable")
		} else {
			citationOpts = append(citationOpts, citation.WithStore(store))
		}
	}
	citations := citation.New(cfg.Citation, citationOpts...)

	translators := translate.Default()
	previews := translation.NewController(kg, kg, translators, &translate.Env{Citations: citations},
		translation.WithLogger(logger),
		translation.WithResultObserver(metrics.ObserveTranslation),
	)
	searcher := search.NewService(es,
		search.WithLogger(logger),
		search.WithLatencyObserver(metrics.ObserveSearch),
	)

	sitemaps, err := sitemap.New(cfg.Sitemap, es, sitemap.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Error("Failed to create sitemap generator")
		os.Exit(1)
	}
	sitemaps.Start()
	async.SafeGo(ctx, logger, 5*time.Minute, "sitemap-warmup", func(ctx context.Context) error {
		_, err := sitemaps.Refresh(ctx)
		return err
	})

	var verifier auth.TokenVerifier
	if cfg.Auth.IssuerURL != "" {
		v, err := auth.NewVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.ClientID)
		if err != nil {
			logger.WithError(err).Error("Failed to create token verifier")
			os.Exit(1)
		}
		verifier = v
	} else {
		logger.Warn("No OIDC issuer configured, every request is anonymous")
	}

	var health *observability.HealthChecker
	if store != nil {
		health = observability.NewHealthChecker(es, store.Client(), version)
	} else {
		health = observability.NewHealthChecker(es, nil, version)
	}

	deps := api.Dependencies{
		Search:    searcher,
		KG:        kg,
		Previews:  previews,
		Registry:  translators,
		Citations: citations,
		Sitemap:   sitemaps,
		Verifier:  verifier,
		Health:    health,
	}
	if cfg.Observability.MetricsEnabled {
		deps.Metrics = metrics
		deps.Prometheus = registry
	}
	server := api.NewServer(deps,
		api.WithLogger(logger),
		api.WithCORSOrigins(cfg.Server.CORSOrigins),
		api.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      otelhttp.NewHandler(server.Handler(), "kgsearch"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.Register("otel", func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})
	if store != nil {
		shutdown.Register("redis", func(context.Context) error { return store.Close() })
	}
	shutdown.Register("sitemap", sitemaps.Stop)

	go func() {
		logger.Infof("Starting kgsearch %s on %s", version, httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	if err := shutdown.WaitForShutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown completed with errors")
		os.Exit(1)
	}
}
