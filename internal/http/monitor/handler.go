package monitor

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nrchamb/QBDTestTool/internal/monitor"
	"github.com/nrchamb/QBDTestTool/internal/state"
)

type Handler struct {
	store *state.Store
	svc   *monitor.Service
}

func NewHandler(store *state.Store, svc *monitor.Service) *Handler {
	return &Handler{store: store, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/start", h.start)
	r.Post("/stop", h.stop)
	r.Get("/status", h.status)
}

type startRequest struct {
	IntervalSeconds int `json:"interval_seconds"`
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	interval := time.Duration(req.IntervalSeconds) * time.Second

	if err := h.svc.Start(interval); err != nil {
		if errors.Is(err, monitor.ErrAlreadyRunning) {
			http.Error(w, "monitoring already running", http.StatusConflict)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) stop(w http.ResponseWriter, r *http.Request) {
	h.svc.Stop()
	w.WriteHeader(http.StatusNoContent)
}

type statusResponse struct {
	Running  bool      `json:"running"`
	LastSync time.Time `json:"last_sync,omitzero"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	s := h.store.State()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(statusResponse{
		Running:  h.svc.Running(),
		LastSync: s.LastSync,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
