// Package verify reconciles tracked transactions against the external
// system: every mirror record is re-queried by txn_id and the outcome
// classified as unchanged, modified, deleted, or error.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nrchamb/QBDTestTool/internal/gateway"
	"github.com/nrchamb/QBDTestTool/internal/state"
)

// Detector classifies drift between the local mirror and the external
// system. One record failing never aborts a batch; its failure becomes
// an error-typed result and the sweep continues.
type Detector struct {
	gw gateway.Gateway
}

func New(gw gateway.Gateway) *Detector {
	return &Detector{gw: gw}
}

// Summary tallies a sweep by change type. Records that produced no
// result are the unchanged remainder of TotalVerified.
type Summary struct {
	TotalVerified int `json:"total_verified"`
	TotalChanged  int `json:"total_changed"`
	TotalDeleted  int `json:"total_deleted"`
	TotalErrors   int `json:"total_errors"`
}

// Report is the outcome of one full verification sweep.
type Report struct {
	RunID            uuid.UUID                  `json:"run_id"`
	Invoices         []state.VerificationResult `json:"invoices"`
	SalesReceipts    []state.VerificationResult `json:"sales_receipts"`
	StatementCharges []state.VerificationResult `json:"statement_charges"`
	Summary          Summary                    `json:"summary"`
}

// Results flattens the three per-kind result lists, in kind order.
func (r *Report) Results() []state.VerificationResult {
	out := make([]state.VerificationResult, 0, len(r.Invoices)+len(r.SalesReceipts)+len(r.StatementCharges))
	out = append(out, r.Invoices...)
	out = append(out, r.SalesReceipts...)
	return append(out, r.StatementCharges...)
}

// VerifyInvoices reconciles each invoice mirror against the external
// system. Cancellation is checked between records; results collected
// before cancellation are returned.
func (d *Detector) VerifyInvoices(ctx context.Context, invoices []state.InvoiceRecord) []state.VerificationResult {
	results, _ := d.verifyInvoices(ctx, invoices)
	return results
}

// VerifySalesReceipts reconciles each sales receipt mirror.
func (d *Detector) VerifySalesReceipts(ctx context.Context, receipts []state.SalesReceiptRecord) []state.VerificationResult {
	results, _ := d.verifySalesReceipts(ctx, receipts)
	return results
}

// VerifyStatementCharges reconciles each statement charge mirror.
func (d *Detector) VerifyStatementCharges(ctx context.Context, charges []state.StatementChargeRecord) []state.VerificationResult {
	results, _ := d.verifyStatementCharges(ctx, charges)
	return results
}

// VerifyAll sweeps the three collections independently and aggregates a
// summary. The gateway is queried once per tracked record, strictly
// sequentially: it represents a single desktop session.
func (d *Detector) VerifyAll(ctx context.Context, s state.AppState) *Report {
	report := &Report{RunID: uuid.New()}

	var examined int

	report.Invoices, examined = d.verifyInvoices(ctx, s.Invoices)
	report.Summary.TotalVerified += examined

	report.SalesReceipts, examined = d.verifySalesReceipts(ctx, s.SalesReceipts)
	report.Summary.TotalVerified += examined

	report.StatementCharges, examined = d.verifyStatementCharges(ctx, s.StatementCharges)
	report.Summary.TotalVerified += examined

	for _, r := range report.Results() {
		switch r.ChangeType {
		case state.ChangeModified:
			report.Summary.TotalChanged++
		case state.ChangeDeleted:
			report.Summary.TotalDeleted++
		case state.ChangeError:
			report.Summary.TotalErrors++
		}
	}

	slog.Info("verification sweep complete",
		"run_id", report.RunID,
		"verified", report.Summary.TotalVerified,
		"changed", report.Summary.TotalChanged,
		"deleted", report.Summary.TotalDeleted,
		"errors", report.Summary.TotalErrors)

	return report
}

func (d *Detector) verifyInvoices(ctx context.Context, invoices []state.InvoiceRecord) ([]state.VerificationResult, int) {
	var results []state.VerificationResult
	examined := 0

	for _, inv := range invoices {
		if ctx.Err() != nil {
			break
		}

		result, ok := d.verifyRecord(ctx, record{
			kind:         state.KindInvoice,
			txnID:        inv.TxnID,
			refNumber:    inv.RefNumber,
			customerName: inv.CustomerName,
			notFound:     "Invoice not found in QuickBooks (may have been deleted)",
		}, func(current *gateway.Transaction) ([]string, *state.CurrentData) {
			return compareInvoice(inv, current)
		})
		if !ok {
			break
		}

		examined++
		if result != nil {
			results = append(results, *result)
		}
	}

	return results, examined
}

func (d *Detector) verifySalesReceipts(ctx context.Context, receipts []state.SalesReceiptRecord) ([]state.VerificationResult, int) {
	var results []state.VerificationResult
	examined := 0

	for _, sr := range receipts {
		if ctx.Err() != nil {
			break
		}

		result, ok := d.verifyRecord(ctx, record{
			kind:         state.KindSalesReceipt,
			txnID:        sr.TxnID,
			refNumber:    sr.RefNumber,
			customerName: sr.CustomerName,
			notFound:     "Sales receipt not found in QuickBooks (may have been deleted)",
		}, func(current *gateway.Transaction) ([]string, *state.CurrentData) {
			return compareSalesReceipt(sr, current)
		})
		if !ok {
			break
		}

		examined++
		if result != nil {
			results = append(results, *result)
		}
	}

	return results, examined
}

func (d *Detector) verifyStatementCharges(ctx context.Context, charges []state.StatementChargeRecord) ([]state.VerificationResult, int) {
	var results []state.VerificationResult
	examined := 0

	for _, sc := range charges {
		if ctx.Err() != nil {
			break
		}

		result, ok := d.verifyRecord(ctx, record{
			kind:         state.KindStatementCharge,
			txnID:        sc.TxnID,
			refNumber:    sc.RefNumber,
			customerName: sc.CustomerName,
			notFound:     "Statement charge not found in QuickBooks (may have been deleted)",
		}, func(current *gateway.Transaction) ([]string, *state.CurrentData) {
			return compareStatementCharge(sc, current)
		})
		if !ok {
			break
		}

		examined++
		if result != nil {
			results = append(results, *result)
		}
	}

	return results, examined
}

type record struct {
	kind         state.TxnKind
	txnID        string
	refNumber    string
	customerName string
	notFound     string
}

// verifyRecord queries one record and classifies the outcome. A nil
// result with ok=true means the record is unchanged. ok=false means the
// sweep was cancelled mid-query and the record was not examined.
func (d *Detector) verifyRecord(ctx context.Context, rec record, diff func(*gateway.Transaction) ([]string, *state.CurrentData)) (*state.VerificationResult, bool) {
	current, err := d.gw.QueryTransaction(ctx, rec.kind, rec.txnID)

	switch {
	case errors.Is(err, gateway.ErrNotFound):
		return &state.VerificationResult{
			Kind:         rec.kind,
			RefNumber:    rec.refNumber,
			TxnID:        rec.txnID,
			CustomerName: rec.customerName,
			ChangeType:   state.ChangeDeleted,
			Details:      []string{rec.notFound},
			Severity:     state.SeverityError,
		}, true

	case err != nil:
		if ctx.Err() != nil {
			// Cancelled mid-query: the record was not examined.
			return nil, false
		}
		slog.Warn("verification query failed", "kind", rec.kind, "txn_id", rec.txnID, "error", err)
		return &state.VerificationResult{
			Kind:         rec.kind,
			RefNumber:    rec.refNumber,
			TxnID:        rec.txnID,
			CustomerName: rec.customerName,
			ChangeType:   state.ChangeError,
			Details:      []string{fmt.Sprintf("Error verifying: %v", err)},
			Severity:     state.SeverityError,
		}, true
	}

	details, currentData := diff(current)
	if len(details) == 0 {
		return nil, true
	}

	return &state.VerificationResult{
		Kind:         rec.kind,
		RefNumber:    rec.refNumber,
		TxnID:        rec.txnID,
		CustomerName: rec.customerName,
		ChangeType:   state.ChangeModified,
		Details:      details,
		Severity:     state.SeverityInfo,
		CurrentData:  currentData,
	}, true
}
