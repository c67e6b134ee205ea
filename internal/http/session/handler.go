package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nrchamb/QBDTestTool/internal/session"
	"github.com/nrchamb/QBDTestTool/internal/state"
)

type Handler struct {
	store    *state.Store
	sessions *session.Manager
}

func NewHandler(store *state.Store, sessions *session.Manager) *Handler {
	return &Handler{store: store, sessions: sessions}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/save", h.save)
	r.Post("/load", h.load)
	r.Get("/info", h.info)
	r.Delete("/", h.clear)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Save(h.store.State()); err != nil {
		slog.Error("failed to save session", "error", err)
		http.Error(w, "could not save session", http.StatusInternalServerError)
		return
	}

	info, err := h.sessions.Info()
	if err != nil {
		http.Error(w, "session saved but unreadable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.sessions.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			http.Error(w, "no previous session data found", http.StatusNotFound)
			return
		}

		slog.Error("failed to load session", "error", err)
		http.Error(w, "could not load session", http.StatusInternalServerError)

		return
	}

	h.sessions.Restore(h.store, snapshot)

	writeJSON(w, http.StatusOK, map[string]int{
		"customers":         len(snapshot.Customers),
		"invoices":          len(snapshot.Invoices),
		"sales_receipts":    len(snapshot.SalesReceipts),
		"statement_charges": len(snapshot.StatementCharges),
	})
}

func (h *Handler) info(w http.ResponseWriter, r *http.Request) {
	info, err := h.sessions.Info()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			http.Error(w, "no session", http.StatusNotFound)
			return
		}

		http.Error(w, "could not read session", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(); err != nil {
		slog.Error("failed to clear session", "error", err)
		http.Error(w, "could not clear session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
