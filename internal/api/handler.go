// Package api implements the updatelens REST API.
// It serves metric evaluations over the lazily loaded dataset.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/updatelens/updatelens/internal/datasource"
	"github.com/updatelens/updatelens/pkg/dataset"
	"github.com/updatelens/updatelens/pkg/metrics"
)

// Handler is the top-level API handler for the updatelens service.
type Handler struct {
	loader *datasource.Loader
	engine *metrics.Engine
	cache  *ResultCache
}

// NewHandler creates a new API handler.
func NewHandler(loader *datasource.Loader, engine *metrics.Engine, cache *ResultCache) *Handler {
	if cache == nil {
		cache = NewResultCache(0)
	}
	return &Handler{
		loader: loader,
		engine: engine,
		cache:  cache,
	}
}

// RegisterRoutes registers the /api/v1 routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/metrics", h.handleListMetrics)
	r.Get("/api/v1/metrics/{key}", h.handleMetric)
	r.Get("/api/v1/datasets", h.handleDatasets)
	r.Get("/api/v1/events", h.handleEvents)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"dataset": h.loader.State().String(),
	})
}

type metricInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func (h *Handler) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	out := make([]metricInfo, 0, len(h.engine.Keys()))
	for _, m := range h.engine.Metrics() {
		out = append(out, metricInfo{Key: m.Key(), Name: m.Name()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"events":  metrics.PolicyEvents,
		"seasons": metrics.SeasonPresets,
	})
}

type datasetsResponse struct {
	State    string            `json:"state"`
	Records  int               `json:"records"`
	Tables   map[string]int    `json:"tables"`
	Metadata *dataset.Metadata `json:"metadata,omitempty"`
}

func (h *Handler) handleDatasets(w http.ResponseWriter, r *http.Request) {
	store, err := h.loader.Load(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := datasetsResponse{
		State:    h.loader.State().String(),
		Records:  store.Records(),
		Tables:   make(map[string]int),
		Metadata: store.Metadata,
	}
	for _, kind := range append([]dataset.Kind{dataset.KindActivity}, dataset.Kinds...) {
		if t := store.Table(kind); t != nil {
			resp.Tables[string(kind)] = t.Len()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps engine and loader errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, metrics.ErrUnknownMetric):
		return http.StatusNotFound
	case errors.Is(err, metrics.ErrInvalidOption),
		errors.Is(err, metrics.ErrPincodeModeRequired),
		errors.Is(err, metrics.ErrInsufficientPeriods):
		return http.StatusBadRequest
	case errors.Is(err, metrics.ErrTableUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, datasource.ErrLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
