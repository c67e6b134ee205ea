package state

import "log/slog"

// Reduce applies one action to the state and returns the resulting
// state. It is pure: the input state and its slices are never modified.
// An action this package does not recognize (including nil) returns the
// input state untouched, so callers can short-circuit on identity.
//
// Malformed payloads (a record with no txn_id, a customer with no name)
// are a dispatch-local validation failure: the reducer logs and returns
// the state unchanged rather than corrupting a collection.
func Reduce(s AppState, a Action) AppState {
	switch a := a.(type) {
	case AddCustomer:
		if a.Customer.Name == "" {
			slog.Warn("ignoring add customer with empty name")
			return s
		}
		s.Customers = appended(s.Customers, a.Customer)
		return s

	case SetCustomers:
		s.Customers = a.Customers
		return s

	case AddInvoice:
		if a.Invoice.TxnID == "" {
			slog.Warn("ignoring add invoice with empty txn_id", "ref_number", a.Invoice.RefNumber)
			return s
		}
		s.Invoices = appended(s.Invoices, a.Invoice)
		return s

	case SetInvoices:
		s.Invoices = a.Invoices
		return s

	case UpdateInvoice:
		if a.Invoice.TxnID == "" {
			slog.Warn("ignoring update invoice with empty txn_id", "ref_number", a.Invoice.RefNumber)
			return s
		}
		s.Invoices = replaced(s.Invoices, a.Invoice, func(r InvoiceRecord) string { return r.TxnID })
		return s

	case AddSalesReceipt:
		if a.SalesReceipt.TxnID == "" {
			slog.Warn("ignoring add sales receipt with empty txn_id", "ref_number", a.SalesReceipt.RefNumber)
			return s
		}
		s.SalesReceipts = appended(s.SalesReceipts, a.SalesReceipt)
		return s

	case SetSalesReceipts:
		s.SalesReceipts = a.SalesReceipts
		return s

	case UpdateSalesReceipt:
		if a.SalesReceipt.TxnID == "" {
			slog.Warn("ignoring update sales receipt with empty txn_id", "ref_number", a.SalesReceipt.RefNumber)
			return s
		}
		s.SalesReceipts = replaced(s.SalesReceipts, a.SalesReceipt, func(r SalesReceiptRecord) string { return r.TxnID })
		return s

	case AddStatementCharge:
		if a.StatementCharge.TxnID == "" {
			slog.Warn("ignoring add statement charge with empty txn_id", "ref_number", a.StatementCharge.RefNumber)
			return s
		}
		s.StatementCharges = appended(s.StatementCharges, a.StatementCharge)
		return s

	case SetStatementCharges:
		s.StatementCharges = a.StatementCharges
		return s

	case UpdateStatementCharge:
		if a.StatementCharge.TxnID == "" {
			slog.Warn("ignoring update statement charge with empty txn_id", "ref_number", a.StatementCharge.RefNumber)
			return s
		}
		s.StatementCharges = replaced(s.StatementCharges, a.StatementCharge, func(r StatementChargeRecord) string { return r.TxnID })
		return s

	case ArchiveClosedTransactions:
		s.Invoices = archiveWhere(s.Invoices, InvoiceRecord.WithArchived, func(r InvoiceRecord) bool {
			return r.Status == StatusClosed
		})
		s.SalesReceipts = archiveWhere(s.SalesReceipts, SalesReceiptRecord.WithArchived, func(r SalesReceiptRecord) bool {
			return r.Status == StatusClosed
		})
		// Statement charges are completed on creation, so all of them qualify.
		s.StatementCharges = archiveWhere(s.StatementCharges, StatementChargeRecord.WithArchived, func(StatementChargeRecord) bool {
			return true
		})
		return s

	case ArchiveAllTransactions:
		s.Invoices = archiveWhere(s.Invoices, InvoiceRecord.WithArchived, func(InvoiceRecord) bool { return true })
		s.SalesReceipts = archiveWhere(s.SalesReceipts, SalesReceiptRecord.WithArchived, func(SalesReceiptRecord) bool { return true })
		s.StatementCharges = archiveWhere(s.StatementCharges, StatementChargeRecord.WithArchived, func(StatementChargeRecord) bool { return true })
		return s

	case RemoveAllArchived:
		s.Invoices = withoutArchived(s.Invoices, func(r InvoiceRecord) bool { return r.Archived })
		s.SalesReceipts = withoutArchived(s.SalesReceipts, func(r SalesReceiptRecord) bool { return r.Archived })
		s.StatementCharges = withoutArchived(s.StatementCharges, func(r StatementChargeRecord) bool { return r.Archived })
		return s

	case SetVerificationResults:
		s.VerificationResults = a.Results
		return s

	case SetMonitoring:
		s.MonitoringActive = a.Active
		return s

	case UpdateLastSync:
		s.LastSync = a.At
		return s

	case SetExpectedDepositAccount:
		s.ExpectedDepositAccount = a.Account
		return s

	default:
		return s
	}
}

// appended copies the collection before adding, so prior snapshots keep
// their backing array.
func appended[T any](records []T, r T) []T {
	out := make([]T, 0, len(records)+1)
	out = append(out, records...)
	return append(out, r)
}

// replaced swaps in the record whose key matches, keeping every other
// element as-is. If nothing matches, the original slice is returned.
func replaced[T any](records []T, r T, key func(T) string) []T {
	idx := -1
	for i, existing := range records {
		if key(existing) == key(r) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return records
	}
	out := make([]T, len(records))
	copy(out, records)
	out[idx] = r
	return out
}

// archiveWhere sets the archived flag on non-archived records matching
// the predicate. If nothing matches, the original slice is returned.
func archiveWhere[T any](records []T, withArchived func(T, bool) T, match func(T) bool) []T {
	changed := false
	out := make([]T, len(records))
	for i, r := range records {
		if !isArchived(r) && match(r) {
			out[i] = withArchived(r, true)
			changed = true
			continue
		}
		out[i] = r
	}
	if !changed {
		return records
	}
	return out
}

func isArchived[T any](r T) bool {
	switch r := any(r).(type) {
	case InvoiceRecord:
		return r.Archived
	case SalesReceiptRecord:
		return r.Archived
	case StatementChargeRecord:
		return r.Archived
	}
	return false
}

// withoutArchived filters out archived records. If nothing is archived,
// the original slice is returned.
func withoutArchived[T any](records []T, archived func(T) bool) []T {
	kept := make([]T, 0, len(records))
	for _, r := range records {
		if !archived(r) {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return records
	}
	return kept
}
