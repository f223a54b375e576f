package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/platinummonkey/kgsearch/pkg/citation"
	"github.com/platinummonkey/kgsearch/pkg/config"
	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/indexing"
	"github.com/platinummonkey/kgsearch/pkg/kgclient"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/references"
	"github.com/platinummonkey/kgsearch/pkg/translate"
	"github.com/platinummonkey/kgsearch/pkg/translation"
)

// indexer bundles the collaborators of an indexing run
type indexer struct {
	config   *config.Config
	logger   *observability.Logger
	metrics  *observability.Metrics
	registry *prometheus.Registry
	search   *elastic.Client
	store    *citation.RedisStore
	job      *indexing.Job
}

func newIndexer() (*indexer, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout).WithField("service", "kgsearch-indexer")
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	kg, err := kgclient.New(cfg.KG,
		kgclient.WithLogger(logger),
		kgclient.WithRetryObserver(metrics.ObserveKGRetry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create KG client: %w", err)
	}
	es, err := elastic.New(cfg.Elastic, elastic.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create search engine client: %w", err)
	}

	citationOpts := []citation.Option{
		citation.WithLogger(logger),
		citation.WithCacheObserver(metrics.ObserveCitationCache),
	}
	var store *citation.RedisStore
	if cfg.Redis.URL != "" {
		if store, err = citation.NewRedisStore(cfg.Redis); err != nil {
			logger.WithError(err).Warn("Shared citation cache unavailable")
			store = nil
		} else {
			citationOpts = append(citationOpts, citation.WithStore(store))
		}
	}

	translators := translate.Default()
	env := &translate.Env{
		Citations:   citation.New(cfg.Citation, citationOpts...),
		Parallelism: cfg.Indexing.Parallelism,
	}
	translations := translation.NewController(kg, kg, translators, env,
		translation.WithLogger(logger),
		translation.WithResultObserver(metrics.ObserveTranslation),
	)
	job := indexing.NewJob(cfg.Indexing.Config, es, translations, references.NewResolver(es, logger), translators,
		indexing.WithLogger(logger),
		indexing.WithIndexedObserver(metrics.ObserveIndexed),
	)

	return &indexer{
		config:   cfg,
		logger:   logger,
		metrics:  metrics,
		registry: registry,
		search:   es,
		store:    store,
		job:      job,
	}, nil
}

func (ix *indexer) close() {
	if ix.store != nil {
		if err := ix.store.Close(); err != nil {
			ix.logger.WithError(err).Warn("Failed to close redis")
		}
	}
}
