package handlers

import (
	"context"
	"net/http"
	"time"
)

// FeedChecker reports reachability of each upstream feed by name
type FeedChecker interface {
	CheckFeeds(ctx context.Context) map[string]error
}

// HealthChecker defines the interface for the response cache check
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type entryCounter interface {
	Len() int
}

// HealthHandler handles health check requests
type HealthHandler struct {
	feeds   FeedChecker
	cache   HealthChecker
	backend string
}

// NewHealthHandler creates a new health handler. cache is nil when
// responses are not cached, in which case backend is reported as "none".
func NewHealthHandler(feeds FeedChecker, cache HealthChecker, backend string) *HealthHandler {
	if cache == nil || backend == "" {
		backend = "none"
	}
	return &HealthHandler{
		feeds:   feeds,
		cache:   cache,
		backend: backend,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Feeds     map[string]string `json:"feeds"`
	Cache     CacheHealth       `json:"cache"`
}

// CacheHealth describes the response cache. Entries is only known for the
// in-process backend.
type CacheHealth struct {
	Backend string `json:"backend"`
	Status  string `json:"status"`
	Entries *int   `json:"entries,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Health handles GET /health. Every feed down is unhealthy; any feed
// or the cache down is degraded.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Feeds:     make(map[string]string),
		Cache:     h.cacheHealth(ctx),
	}

	down := h.checkFeeds(ctx, response.Feeds)
	switch {
	case down > 0 && down == len(response.Feeds):
		response.Status = "unhealthy"
	case down > 0 || response.Cache.Status == "unhealthy":
		response.Status = "degraded"
	}

	status := http.StatusOK
	if response.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, response)
}

// Ready handles GET /ready. Not ready only when no feed answers.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	feeds := make(map[string]string)
	if down := h.checkFeeds(ctx, feeds); down > 0 && down == len(feeds) {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Live handles GET /live (Kubernetes liveness probe)
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}

// checkFeeds fills report with each feed's state and returns how many failed
func (h *HealthHandler) checkFeeds(ctx context.Context, report map[string]string) int {
	down := 0
	for name, err := range h.feeds.CheckFeeds(ctx) {
		if err != nil {
			report[name] = "unhealthy: " + err.Error()
			down++
			continue
		}
		report[name] = "healthy"
	}
	return down
}

func (h *HealthHandler) cacheHealth(ctx context.Context) CacheHealth {
	if h.cache == nil {
		return CacheHealth{Backend: h.backend, Status: "disabled"}
	}

	health := CacheHealth{Backend: h.backend, Status: "healthy"}
	if err := h.cache.HealthCheck(ctx); err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
	}
	if counter, ok := h.cache.(entryCounter); ok {
		n := counter.Len()
		health.Entries = &n
	}
	return health
}
