package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"latency-dashboard/app/src/domain"
	"latency-dashboard/app/src/infra"
)

// handler contains the HTTP handlers and shared dependencies for the REST API.
type handler struct {
	service   domain.LatencyService
	logger    *infra.Logger
	staticDir string
}

func registerRoutes(router *chi.Mux, h *handler) {
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Get("/", h.handleIndex)
	router.Get("/latency-heatmap", h.handleStaticPage("heatmap.html"))
	router.Get("/latency", h.handleStaticPage("latency.html"))

	router.Get("/api/latency", h.handleOvernight)
	router.Get("/api/latency/timeseries", h.handleRolling)
	router.Post("/api/latency", h.handleIngest)
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const (
	msgInserted    = "Data inserted successfully"
	msgStoreError  = "Database error"
	msgInvalidBody = "Invalid JSON body"
)

const indexHTML = `
    <h1>Latency Dashboard</h1>
    <ul>
      <li><a href="/latency-heatmap">Latency Heatmap</a></li>
      <li><a href="/latency">Latency Time Series</a></li>
    </ul>
  `

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(indexHTML))
}

func (h *handler) handleStaticPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(h.staticDir, name))
	}
}

// handleOvernight serves today's [0,6) window for the heatmap.
func (h *handler) handleOvernight(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.Overnight(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, points)
}

// handleRolling serves the sliding [now-1h, now] window.
func (h *handler) handleRolling(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.Rolling(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, points)
}

func (h *handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	var raw domain.RawRecord
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&raw); err != nil {
		h.writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	// The body must be a single JSON value; trailing content is malformed.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.service.Record(r.Context(), raw); err != nil {
		if verr, ok := domain.AsValidationError(err); ok {
			h.writeError(w, http.StatusBadRequest, verr.Reason)
			return
		}
		h.respondServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, messageResponse{Message: msgInserted})
}

// respondServiceError hides store detail behind the generic message; the full
// error was already logged where it happened.
func (h *handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if h.logger != nil {
		h.logger.Errorf(r.Context(), "request failed: %v", err)
	}
	h.writeError(w, http.StatusInternalServerError, msgStoreError)
}

func (h *handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
