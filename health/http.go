package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// Handler serves the aggregator's report over HTTP in the usual probe
// shapes: a plain liveness endpoint, a readiness endpoint that consults
// the checks, and a detailed JSON report.
type Handler struct {
	agg *Aggregator
}

// NewHandler creates a probe handler over the aggregator.
func NewHandler(agg *Aggregator) *Handler {
	return &Handler{agg: agg}
}

// Routes registers the probe endpoints on mux: /healthz (liveness),
// /readyz (readiness), /health (detailed JSON), /health/{check}.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Liveness)
	mux.HandleFunc("GET /readyz", h.Readiness)
	mux.HandleFunc("GET /health", h.Detailed)
	mux.HandleFunc("GET /health/{check}", h.Component)
}

// Liveness answers 200 as long as the process serves requests. It runs no
// checks: a degraded supplier must not get the process restarted.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readiness runs all checks and answers 200 while the service can serve,
// including in degraded form, and 503 when any check is unhealthy.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	report := h.agg.CheckAll(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	switch report.Status {
	case StatusHealthy:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	case StatusDegraded:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("DEGRADED"))
	default:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("UNHEALTHY"))
	}
}

// Response is the JSON body of the detailed health endpoint.
type Response struct {
	Status    string                 `json:"status"`
	CheckedAt string                 `json:"checked_at"`
	Checks    map[string]CheckStatus `json:"checks,omitempty"`
}

// CheckStatus is one check's slice of the detailed response.
type CheckStatus struct {
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Detailed runs all checks and reports each one's result as JSON. The
// HTTP status mirrors Readiness: 503 only when some check is unhealthy.
func (h *Handler) Detailed(w http.ResponseWriter, r *http.Request) {
	report := h.agg.CheckAll(r.Context())

	response := Response{
		Status:    report.Status.String(),
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]CheckStatus, len(report.Checks)),
	}
	for name, result := range report.Checks {
		response.Checks[name] = checkStatus(result)
	}

	writeJSON(w, statusCode(report.Status), response)
}

// Component runs the single check named in the URL path.
func (h *Handler) Component(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("check")

	result, err := h.agg.Check(r.Context(), name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, statusCode(result.Status), checkStatus(result))
}

func checkStatus(result Result) CheckStatus {
	cs := CheckStatus{
		Status:   result.Status.String(),
		Message:  result.Message,
		Duration: result.Duration.String(),
		Details:  result.Details,
	}
	if result.Err != nil {
		cs.Error = result.Err.Error()
	}
	return cs
}

func statusCode(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
