package maintenance

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nrchamb/QBDTestTool/internal/cleanup"
)

type Handler struct {
	svc *cleanup.Service
}

func NewHandler(svc *cleanup.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/archive-closed", h.archiveClosed)
	r.Post("/archive-all", h.archiveAll)
	r.Post("/remove-archived", h.removeArchived)
	r.Post("/delete-archived", h.deleteArchived)
}

func (h *Handler) archiveClosed(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.ArchiveClosed()
	h.respondCounts(w, counts, err)
}

func (h *Handler) archiveAll(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.ArchiveAll()
	h.respondCounts(w, counts, err)
}

func (h *Handler) removeArchived(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.RemoveArchived()
	h.respondCounts(w, counts, err)
}

// deleteArchived permanently deletes archived records from the external
// system. Partial failure is a valid outcome; the report carries the
// per-record errors.
func (h *Handler) deleteArchived(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.DeleteArchived(r.Context())
	if err != nil {
		slog.Error("deletion run failed to save session", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

type countsResponse struct {
	cleanup.Counts
	Total int `json:"total"`
}

func (h *Handler) respondCounts(w http.ResponseWriter, counts cleanup.Counts, err error) {
	if err != nil {
		slog.Error("cleanup operation failed to save session", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, countsResponse{Counts: counts, Total: counts.Total()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
