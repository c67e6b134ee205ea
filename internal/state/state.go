package state

import "time"

// AppState is the root application state. It is treated as immutable:
// the reducer never modifies an existing AppState or the slices it
// holds, so a snapshot handed to a reader stays valid forever.
type AppState struct {
	Customers              []Customer
	Invoices               []InvoiceRecord
	SalesReceipts          []SalesReceiptRecord
	StatementCharges       []StatementChargeRecord
	VerificationResults    []VerificationResult
	MonitoringActive       bool
	LastSync               time.Time
	ExpectedDepositAccount string
}

// FindInvoice returns the invoice with the given txn_id, if tracked.
func (s AppState) FindInvoice(txnID string) (InvoiceRecord, bool) {
	for _, inv := range s.Invoices {
		if inv.TxnID == txnID {
			return inv, true
		}
	}
	return InvoiceRecord{}, false
}

// FindSalesReceipt returns the sales receipt with the given txn_id, if tracked.
func (s AppState) FindSalesReceipt(txnID string) (SalesReceiptRecord, bool) {
	for _, sr := range s.SalesReceipts {
		if sr.TxnID == txnID {
			return sr, true
		}
	}
	return SalesReceiptRecord{}, false
}

// FindStatementCharge returns the statement charge with the given txn_id, if tracked.
func (s AppState) FindStatementCharge(txnID string) (StatementChargeRecord, bool) {
	for _, sc := range s.StatementCharges {
		if sc.TxnID == txnID {
			return sc, true
		}
	}
	return StatementChargeRecord{}, false
}
