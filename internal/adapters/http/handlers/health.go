package handlers

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds each dependency probe.
const healthCheckTimeout = 5 * time.Second

type HealthHandler struct {
	version string
	dbPing  func(context.Context) error
}

// NewHealthHandler creates the health endpoints. dbPing may be nil when no
// store is wired; the detailed check then reports no database component.
func NewHealthHandler(version string, dbPing func(context.Context) error) *HealthHandler {
	return &HealthHandler{version: version, dbPing: dbPing}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type DetailedHealthResponse struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

type ComponentHealth struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// Handle serves GET /health, the lightweight liveness check.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}

// HandleDetailed serves GET /health/detailed. The database is the only
// critical dependency; everything else in the pipeline is in-process.
func (h *HealthHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	response := DetailedHealthResponse{
		Status:     "healthy",
		Version:    h.version,
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]ComponentHealth),
	}

	if h.dbPing != nil {
		component := h.checkDatabase(r.Context())
		response.Components["database"] = component
		if component.Status != "healthy" {
			response.Status = "unhealthy"
		}
	}
	response.Components["solver"] = ComponentHealth{Status: "healthy"}

	status := http.StatusOK
	if response.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, response, status)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentHealth {
	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.dbPing(checkCtx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: "unhealthy", LatencyMs: latency, Error: err.Error()}
	}
	return ComponentHealth{Status: "healthy", LatencyMs: latency}
}
