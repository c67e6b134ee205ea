package verify

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nrchamb/QBDTestTool/internal/gateway"
	"github.com/nrchamb/QBDTestTool/internal/state"
	"github.com/nrchamb/QBDTestTool/internal/verify"
)

type Handler struct {
	store    *state.Store
	detector *verify.Detector
	gw       gateway.Gateway
}

func NewHandler(store *state.Store, detector *verify.Detector, gw gateway.Gateway) *Handler {
	return &Handler{store: store, detector: detector, gw: gw}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/run", h.run)
	r.Get("/results", h.results)
	r.Get("/gateway", h.probe)
}

// run executes one verification sweep against the external system and
// commits the findings to the store. Cancelling the request stops the
// sweep between records; results already collected are still applied.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	report := h.detector.VerifyAll(r.Context(), h.store.State())

	h.store.Dispatch(state.SetVerificationResults{Results: report.Results()})
	h.store.Dispatch(state.UpdateLastSync{At: time.Now()})

	writeJSON(w, http.StatusOK, report)
}

type resultResponse struct {
	Kind         state.TxnKind      `json:"type"`
	RefNumber    string             `json:"ref_number"`
	TxnID        string             `json:"txn_id"`
	CustomerName string             `json:"customer_name,omitempty"`
	ChangeType   state.ChangeType   `json:"change_type"`
	Details      []string           `json:"details"`
	Severity     state.Severity     `json:"severity"`
	CurrentData  *state.CurrentData `json:"current_data,omitempty"`
}

func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	s := h.store.State()

	out := make([]resultResponse, 0, len(s.VerificationResults))
	for _, res := range s.VerificationResults {
		out = append(out, resultResponse{
			Kind:         res.Kind,
			RefNumber:    res.RefNumber,
			TxnID:        res.TxnID,
			CustomerName: res.CustomerName,
			ChangeType:   res.ChangeType,
			Details:      res.Details,
			Severity:     res.Severity,
			CurrentData:  res.CurrentData,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

type probeResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

func (h *Handler) probe(w http.ResponseWriter, r *http.Request) {
	availability := h.gw.Probe(r.Context())

	status := http.StatusOK
	if !availability.Available {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, probeResponse{
		Available: availability.Available,
		Message:   availability.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
