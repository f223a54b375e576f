// Package observability carries the ambient concerns of the search service
// and the indexer: JSON logging on slog, the kgsearch_* Prometheus metrics,
// OpenTelemetry tracing, health checks and graceful shutdown.
//
// Components never import Prometheus directly. They accept observer
// callbacks, which the binaries bind to the methods of Metrics:
//
//	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
//	controller := translation.NewController(kg, kg, registry, env,
//		translation.WithResultObserver(metrics.ObserveTranslation))
//
// Request scoped logging:
//
//	observability.FromContext(r.Context()).WithField("group", group).Info("Search")
//
// Health:
//
//	checker := observability.NewHealthChecker(elasticClient, redisClient, version)
//	status := checker.Check(ctx)
package observability
