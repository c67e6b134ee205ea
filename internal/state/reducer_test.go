package state

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAction stands in for an action kind the reducer does not know.
type fakeAction struct{}

func (fakeAction) isAction() {}

func newInvoice(txnID, refNumber string, amount string, status Status) InvoiceRecord {
	amt := decimal.RequireFromString(amount)
	return InvoiceRecord{
		TxnID:            txnID,
		RefNumber:        refNumber,
		CustomerName:     "Test Customer",
		Amount:           amt,
		BalanceRemaining: amt,
		Status:           status,
		CreatedAt:        time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		EditSequence:     "1",
	}
}

func TestReduce_AddAppendsWithoutMutatingInput(t *testing.T) {
	s0 := AppState{}

	s1 := Reduce(s0, AddInvoice{Invoice: newInvoice("TXN-1", "1001", "100", StatusOpen)})
	s2 := Reduce(s1, AddInvoice{Invoice: newInvoice("TXN-2", "1002", "200", StatusOpen)})

	assert.Empty(t, s0.Invoices)
	assert.Len(t, s1.Invoices, 1)
	require.Len(t, s2.Invoices, 2)
	assert.Equal(t, "TXN-1", s2.Invoices[0].TxnID)
	assert.Equal(t, "TXN-2", s2.Invoices[1].TxnID)

	// The earlier snapshot must not see the second append.
	assert.Len(t, s1.Invoices, 1)
}

func TestReduce_UpdateReplacesOnlyMatch(t *testing.T) {
	s := AppState{Invoices: []InvoiceRecord{
		newInvoice("TXN-1", "1001", "100", StatusOpen),
		newInvoice("TXN-2", "1002", "200", StatusOpen),
	}}

	updated := newInvoice("TXN-2", "1002", "200", StatusClosed)
	updated.EditSequence = "2"

	got := Reduce(s, UpdateInvoice{Invoice: updated})

	require.Len(t, got.Invoices, 2)
	assert.Equal(t, s.Invoices[0], got.Invoices[0])
	assert.Equal(t, StatusClosed, got.Invoices[1].Status)
	assert.Equal(t, "2", got.Invoices[1].EditSequence)
}

func TestReduce_UpdateIsIdempotent(t *testing.T) {
	s := AppState{Invoices: []InvoiceRecord{
		newInvoice("TXN-1", "1001", "100", StatusOpen),
	}}

	updated := newInvoice("TXN-1", "1001", "100", StatusClosed)

	once := Reduce(s, UpdateInvoice{Invoice: updated})
	twice := Reduce(once, UpdateInvoice{Invoice: updated})

	assert.Equal(t, once, twice)
}

func TestReduce_UpdateWithoutMatchKeepsCollection(t *testing.T) {
	s := AppState{Invoices: []InvoiceRecord{
		newInvoice("TXN-1", "1001", "100", StatusOpen),
	}}

	got := Reduce(s, UpdateInvoice{Invoice: newInvoice("TXN-404", "9999", "50", StatusOpen)})

	assert.Equal(t, s.Invoices, got.Invoices)
}

func TestReduce_UpdatePreservesUniqueness(t *testing.T) {
	s := AppState{}
	s = Reduce(s, AddInvoice{Invoice: newInvoice("TXN-1", "1001", "100", StatusOpen)})
	s = Reduce(s, AddInvoice{Invoice: newInvoice("TXN-2", "1002", "200", StatusOpen)})
	s = Reduce(s, UpdateInvoice{Invoice: newInvoice("TXN-1", "1001-A", "100", StatusClosed)})
	s = Reduce(s, UpdateInvoice{Invoice: newInvoice("TXN-2", "1002-A", "200", StatusClosed)})

	seen := map[string]bool{}
	for _, inv := range s.Invoices {
		assert.False(t, seen[inv.TxnID], "duplicate txn_id %s", inv.TxnID)
		seen[inv.TxnID] = true
	}
	assert.Len(t, s.Invoices, 2)
}

func TestReduce_ArchiveClosed(t *testing.T) {
	s := AppState{
		Invoices: []InvoiceRecord{
			newInvoice("TXN-1", "1001", "100", StatusOpen),
			newInvoice("TXN-2", "1002", "200", StatusClosed),
		},
		SalesReceipts: []SalesReceiptRecord{
			{TxnID: "SR-1", Status: StatusClosed},
			{TxnID: "SR-2", Status: StatusOpen},
		},
		StatementCharges: []StatementChargeRecord{
			{TxnID: "SC-1", Status: StatusCompleted},
			{TxnID: "SC-2", Status: StatusCompleted, Archived: true},
		},
	}

	got := Reduce(s, ArchiveClosedTransactions{})

	assert.False(t, got.Invoices[0].Archived, "open invoice must not archive")
	assert.True(t, got.Invoices[1].Archived)
	assert.True(t, got.SalesReceipts[0].Archived)
	assert.False(t, got.SalesReceipts[1].Archived)
	// Charges are always completed, so every non-archived charge archives.
	assert.True(t, got.StatementCharges[0].Archived)
	assert.True(t, got.StatementCharges[1].Archived)
}

func TestReduce_ArchiveAllIgnoresStatus(t *testing.T) {
	s := AppState{
		Invoices: []InvoiceRecord{
			newInvoice("TXN-1", "1001", "100", StatusOpen),
			newInvoice("TXN-2", "1002", "200", StatusClosed),
		},
	}

	got := Reduce(s, ArchiveAllTransactions{})

	assert.True(t, got.Invoices[0].Archived)
	assert.True(t, got.Invoices[1].Archived)
}

func TestReduce_ArchiveIsMonotonic(t *testing.T) {
	s := AppState{Invoices: []InvoiceRecord{
		newInvoice("TXN-1", "1001", "100", StatusClosed),
	}}

	s = Reduce(s, ArchiveClosedTransactions{})
	require.True(t, s.Invoices[0].Archived)

	// No defined action flips the flag back.
	for _, a := range []Action{
		ArchiveClosedTransactions{},
		ArchiveAllTransactions{},
		SetMonitoring{Active: true},
		UpdateLastSync{At: time.Now()},
	} {
		s = Reduce(s, a)
		assert.True(t, s.Invoices[0].Archived)
	}
}

func TestReduce_RemoveAllArchived(t *testing.T) {
	s := AppState{
		Invoices: []InvoiceRecord{
			newInvoice("TXN-1", "1001", "100", StatusOpen),
			newInvoice("TXN-2", "1002", "200", StatusClosed).WithArchived(true),
		},
		SalesReceipts: []SalesReceiptRecord{
			{TxnID: "SR-1", Archived: true},
		},
		StatementCharges: []StatementChargeRecord{
			{TxnID: "SC-1", Archived: true},
			{TxnID: "SC-2"},
		},
	}

	got := Reduce(s, RemoveAllArchived{})

	require.Len(t, got.Invoices, 1)
	assert.Equal(t, "TXN-1", got.Invoices[0].TxnID)
	assert.Empty(t, got.SalesReceipts)
	require.Len(t, got.StatementCharges, 1)
	assert.Equal(t, "SC-2", got.StatementCharges[0].TxnID)
}

func TestReduce_UnknownActionReturnsSameState(t *testing.T) {
	s := AppState{Invoices: []InvoiceRecord{
		newInvoice("TXN-1", "1001", "100", StatusOpen),
	}}

	got := Reduce(s, fakeAction{})

	// Structural identity: same backing slices, so callers can
	// short-circuit on "nothing changed".
	assert.Same(t, &s.Invoices[0], &got.Invoices[0])

	got = Reduce(s, nil)
	assert.Same(t, &s.Invoices[0], &got.Invoices[0])
}

func TestReduce_MalformedPayloadIsNoOp(t *testing.T) {
	s := AppState{Invoices: []InvoiceRecord{
		newInvoice("TXN-1", "1001", "100", StatusOpen),
	}}

	tests := []struct {
		name   string
		action Action
	}{
		{name: "AddInvoiceMissingTxnID", action: AddInvoice{Invoice: InvoiceRecord{RefNumber: "1002"}}},
		{name: "UpdateInvoiceMissingTxnID", action: UpdateInvoice{Invoice: InvoiceRecord{RefNumber: "1002"}}},
		{name: "AddSalesReceiptMissingTxnID", action: AddSalesReceipt{SalesReceipt: SalesReceiptRecord{}}},
		{name: "AddStatementChargeMissingTxnID", action: AddStatementCharge{StatementCharge: StatementChargeRecord{}}},
		{name: "AddCustomerMissingName", action: AddCustomer{Customer: Customer{ListID: "L1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(s, tt.action)
			assert.Equal(t, s, got)
		})
	}
}

func TestReduce_ScalarFields(t *testing.T) {
	s := AppState{}

	s = Reduce(s, SetMonitoring{Active: true})
	assert.True(t, s.MonitoringActive)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s = Reduce(s, UpdateLastSync{At: at})
	assert.Equal(t, at, s.LastSync)

	s = Reduce(s, SetExpectedDepositAccount{Account: "Undeposited Funds"})
	assert.Equal(t, "Undeposited Funds", s.ExpectedDepositAccount)

	results := []VerificationResult{{Kind: KindInvoice, TxnID: "TXN-1", ChangeType: ChangeModified}}
	s = Reduce(s, SetVerificationResults{Results: results})
	assert.Equal(t, results, s.VerificationResults)
}

func TestReduce_SetReplacesCollection(t *testing.T) {
	s := AppState{Invoices: []InvoiceRecord{newInvoice("TXN-1", "1001", "100", StatusOpen)}}

	replacement := []InvoiceRecord{
		newInvoice("TXN-9", "2001", "900", StatusOpen),
	}

	got := Reduce(s, SetInvoices{Invoices: replacement})

	require.Len(t, got.Invoices, 1)
	assert.Equal(t, "TXN-9", got.Invoices[0].TxnID)
}
