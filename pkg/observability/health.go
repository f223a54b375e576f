package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

const readinessTimeout = 5 * time.Second

// Pinger is a dependency which can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the body of the health endpoints
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Version      string                      `json:"version,omitempty"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus is the outcome of pinging one dependency
type DependencyStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

type dependency struct {
	name string
	ping func(context.Context) error
	// required dependencies make the service unhealthy, the others degrade it
	required bool
}

// HealthChecker serves the liveness and readiness checks
type HealthChecker struct {
	version      string
	dependencies []dependency
}

// NewHealthChecker creates a health checker. The search engine is required
// for readiness, redis only backs the shared citation cache. Nil
// dependencies are not checked.
func NewHealthChecker(search Pinger, redisClient *redis.Client, version string) *HealthChecker {
	h := &HealthChecker{version: version}
	if search != nil {
		h.dependencies = append(h.dependencies, dependency{name: "search", ping: search.Ping, required: true})
	}
	if redisClient != nil {
		h.dependencies = append(h.dependencies, dependency{
			name: "redis",
			ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}
	return h
}

// Liveness answers 200 as long as the process serves requests
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, http.StatusOK, HealthStatus{Status: StatusHealthy, Timestamp: time.Now(), Version: h.version})
}

// Readiness answers 503 when a required dependency is down
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := h.Check(ctx)
	code := http.StatusOK
	if status.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeHealth(w, code, status)
}

// Check pings every dependency concurrently
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	results := make([]DependencyStatus, len(h.dependencies))
	var wg sync.WaitGroup
	for i, dep := range h.dependencies {
		wg.Add(1)
		go func(i int, dep dependency) {
			defer wg.Done()
			results[i] = ping(ctx, dep.ping)
		}(i, dep)
	}
	wg.Wait()

	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Version:      h.version,
		Dependencies: make(map[string]DependencyStatus, len(results)),
	}
	for i, dep := range h.dependencies {
		result := results[i]
		status.Dependencies[dep.name] = result
		if result.Status != StatusUnhealthy {
			continue
		}
		if dep.required {
			status.Status = StatusUnhealthy
		} else if status.Status == StatusHealthy {
			status.Status = StatusDegraded
		}
	}
	return status
}

func ping(ctx context.Context, fn func(context.Context) error) DependencyStatus {
	start := time.Now()
	err := fn(ctx)
	status := DependencyStatus{
		Status:    StatusHealthy,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: start,
	}
	if err != nil {
		status.Status = StatusUnhealthy
		status.Message = err.Error()
	}
	return status
}

func writeHealth(w http.ResponseWriter, code int, status HealthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
