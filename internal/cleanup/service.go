// Package cleanup implements the archive and removal flows: marking
// transactions archived, dropping archived records from the session,
// and permanently deleting archived records from the external system.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nrchamb/QBDTestTool/internal/gateway"
	"github.com/nrchamb/QBDTestTool/internal/session"
	"github.com/nrchamb/QBDTestTool/internal/state"
)

type Service struct {
	store    *state.Store
	gw       gateway.Gateway
	sessions *session.Manager
}

func NewService(store *state.Store, gw gateway.Gateway, sessions *session.Manager) *Service {
	return &Service{store: store, gw: gw, sessions: sessions}
}

// Counts breaks a cleanup operation down by transaction kind.
type Counts struct {
	Invoices         int `json:"invoices"`
	SalesReceipts    int `json:"sales_receipts"`
	StatementCharges int `json:"statement_charges"`
}

func (c Counts) Total() int {
	return c.Invoices + c.SalesReceipts + c.StatementCharges
}

// ArchiveClosed marks closed invoices and sales receipts, and every
// non-archived statement charge, as archived. Archived records stay in
// the external system untouched. The session is saved afterwards.
func (s *Service) ArchiveClosed() (Counts, error) {
	st := s.store.State()

	counts := Counts{}
	for _, inv := range st.Invoices {
		if inv.Status == state.StatusClosed && !inv.Archived {
			counts.Invoices++
		}
	}
	for _, sr := range st.SalesReceipts {
		if sr.Status == state.StatusClosed && !sr.Archived {
			counts.SalesReceipts++
		}
	}
	for _, sc := range st.StatementCharges {
		if !sc.Archived {
			counts.StatementCharges++
		}
	}

	if counts.Total() == 0 {
		return counts, nil
	}

	s.store.Dispatch(state.ArchiveClosedTransactions{})
	slog.Info("archived closed transactions", "count", counts.Total())

	return counts, s.autosave()
}

// ArchiveAll marks every non-archived transaction as archived,
// regardless of status.
func (s *Service) ArchiveAll() (Counts, error) {
	st := s.store.State()

	counts := Counts{}
	for _, inv := range st.Invoices {
		if !inv.Archived {
			counts.Invoices++
		}
	}
	for _, sr := range st.SalesReceipts {
		if !sr.Archived {
			counts.SalesReceipts++
		}
	}
	for _, sc := range st.StatementCharges {
		if !sc.Archived {
			counts.StatementCharges++
		}
	}

	if counts.Total() == 0 {
		return counts, nil
	}

	s.store.Dispatch(state.ArchiveAllTransactions{})
	slog.Info("archived all transactions", "count", counts.Total())

	return counts, s.autosave()
}

// RemoveArchived drops archived transactions from the session. The
// external system is not touched.
func (s *Service) RemoveArchived() (Counts, error) {
	counts := s.archivedCounts()
	if counts.Total() == 0 {
		return counts, nil
	}

	s.store.Dispatch(state.RemoveAllArchived{})
	slog.Info("removed archived transactions from session", "count", counts.Total())

	return counts, s.autosave()
}

// DeleteReport summarizes a permanent-deletion run. Failures are
// per-record; one failure never stops the batch.
type DeleteReport struct {
	Deleted int      `json:"deleted"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// DeleteArchived permanently deletes every archived transaction from
// the external system through the gateway, one record at a time. When
// at least one deletion succeeded, archived records are then removed
// from the session as well.
func (s *Service) DeleteArchived(ctx context.Context) (*DeleteReport, error) {
	st := s.store.State()
	report := &DeleteReport{}

	for _, inv := range st.Invoices {
		if inv.Archived {
			s.deleteOne(ctx, report, state.KindInvoice, "Invoice", inv.TxnID, inv.RefNumber)
		}
	}
	for _, sr := range st.SalesReceipts {
		if sr.Archived {
			s.deleteOne(ctx, report, state.KindSalesReceipt, "Sales Receipt", sr.TxnID, sr.RefNumber)
		}
	}
	for _, sc := range st.StatementCharges {
		if sc.Archived {
			s.deleteOne(ctx, report, state.KindStatementCharge, "Statement Charge", sc.TxnID, sc.RefNumber)
		}
	}

	slog.Info("deletion run complete", "deleted", report.Deleted, "failed", report.Failed)

	if report.Deleted == 0 {
		return report, nil
	}

	s.store.Dispatch(state.RemoveAllArchived{})
	return report, s.autosave()
}

func (s *Service) deleteOne(ctx context.Context, report *DeleteReport, kind state.TxnKind, label, txnID, refNumber string) {
	if err := s.gw.DeleteTransaction(ctx, kind, txnID); err != nil {
		report.Failed++
		report.Errors = append(report.Errors, fmt.Sprintf("%s %s: %v", label, refNumber, err))
		slog.Warn("failed to delete transaction", "kind", kind, "ref_number", refNumber, "error", err)
		return
	}

	report.Deleted++
	slog.Info("deleted transaction", "kind", kind, "ref_number", refNumber)
}

func (s *Service) archivedCounts() Counts {
	st := s.store.State()

	counts := Counts{}
	for _, inv := range st.Invoices {
		if inv.Archived {
			counts.Invoices++
		}
	}
	for _, sr := range st.SalesReceipts {
		if sr.Archived {
			counts.SalesReceipts++
		}
	}
	for _, sc := range st.StatementCharges {
		if sc.Archived {
			counts.StatementCharges++
		}
	}
	return counts
}

func (s *Service) autosave() error {
	if err := s.sessions.Save(s.store.State()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
