package verify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrchamb/QBDTestTool/internal/gateway"
	"github.com/nrchamb/QBDTestTool/internal/state"
)

func baseInvoice() state.InvoiceRecord {
	amt := decimal.RequireFromString("500.00")
	return state.InvoiceRecord{
		TxnID:            "INV-1",
		RefNumber:        "1001",
		CustomerName:     "Test Customer",
		Amount:           amt,
		BalanceRemaining: amt,
		Status:           state.StatusOpen,
		InitialMemo:      "original memo",
		EditSequence:     "100",
		TimeModified:     "2025-06-01T10:00:00",
		DepositAccount:   "Undeposited Funds",
	}
}

func matchingTransaction(inv state.InvoiceRecord) *gateway.Transaction {
	return &gateway.Transaction{
		TxnID:            inv.TxnID,
		RefNumber:        inv.RefNumber,
		Memo:             inv.InitialMemo,
		BalanceRemaining: inv.Amount,
		IsPaid:           false,
		EditSequence:     inv.EditSequence,
		TimeModified:     inv.TimeModified,
		DepositAccount:   inv.DepositAccount,
	}
}

func TestCompareInvoice_NoChanges(t *testing.T) {
	inv := baseInvoice()

	details, current := compareInvoice(inv, matchingTransaction(inv))

	assert.Empty(t, details)
	require.NotNil(t, current)
	assert.Equal(t, "100", current.EditSequence)
	require.NotNil(t, current.BalanceRemaining)
	assert.True(t, inv.Amount.Equal(*current.BalanceRemaining))
	require.NotNil(t, current.IsPaid)
	assert.False(t, *current.IsPaid)
}

func TestCompareInvoice_EditSequenceAndTimeModified(t *testing.T) {
	inv := baseInvoice()
	tx := matchingTransaction(inv)
	tx.EditSequence = "101"
	tx.TimeModified = "2025-06-02T08:30:00"

	details, _ := compareInvoice(inv, tx)

	require.Len(t, details, 2)
	assert.Equal(t, "EditSequence changed from '100' to '101'", details[0])
	assert.Equal(t, "TimeModified changed from '2025-06-01T10:00:00' to '2025-06-02T08:30:00'", details[1])
}

func TestCompareInvoice_PaymentDetected(t *testing.T) {
	inv := baseInvoice()
	tx := matchingTransaction(inv)
	tx.BalanceRemaining = decimal.RequireFromString("200")

	details, current := compareInvoice(inv, tx)

	require.Len(t, details, 1)
	assert.Equal(t, "Payment detected: $300.00 (balance: $200.00)", details[0])
	require.NotNil(t, current.BalanceRemaining)
	assert.True(t, decimal.RequireFromString("200").Equal(*current.BalanceRemaining))
}

func TestCompareInvoice_MarkedPaid(t *testing.T) {
	inv := baseInvoice()
	tx := matchingTransaction(inv)
	tx.BalanceRemaining = decimal.Zero
	tx.IsPaid = true

	details, _ := compareInvoice(inv, tx)

	require.Len(t, details, 2)
	assert.Equal(t, "Payment detected: $500.00 (balance: $0.00)", details[0])
	assert.Equal(t, "Invoice marked as PAID", details[1])
}

func TestCompareInvoice_Reopened(t *testing.T) {
	inv := baseInvoice()
	inv.Status = state.StatusClosed
	tx := matchingTransaction(inv)
	tx.IsPaid = false

	details, _ := compareInvoice(inv, tx)

	require.Len(t, details, 1)
	assert.Equal(t, "Invoice marked as UNPAID (reopened)", details[0])
}

func TestCompareInvoice_MemoAndDepositAccount(t *testing.T) {
	inv := baseInvoice()
	tx := matchingTransaction(inv)
	tx.Memo = "updated memo"
	tx.DepositAccount = "Checking"

	details, _ := compareInvoice(inv, tx)

	require.Len(t, details, 2)
	assert.Equal(t, "Memo changed from 'original memo' to 'updated memo'", details[0])
	assert.Equal(t, "Deposit account changed from 'Undeposited Funds' to 'Checking'", details[1])
}

func TestCompareInvoice_DepositAccountSet(t *testing.T) {
	inv := baseInvoice()
	inv.DepositAccount = ""
	tx := matchingTransaction(inv)
	tx.DepositAccount = "Checking"

	details, _ := compareInvoice(inv, tx)

	require.Len(t, details, 1)
	assert.Equal(t, "Deposit account set to: Checking", details[0])
}

func TestCompareInvoice_EmptyLocalFieldsAreNotTracked(t *testing.T) {
	// An empty local EditSequence, TimeModified, or memo means the field
	// was never captured, not that it changed.
	inv := baseInvoice()
	inv.EditSequence = ""
	inv.TimeModified = ""
	inv.InitialMemo = ""
	tx := matchingTransaction(inv)
	tx.EditSequence = "999"
	tx.TimeModified = "2025-06-03T00:00:00"
	tx.Memo = "anything"

	details, _ := compareInvoice(inv, tx)

	assert.Empty(t, details)
}

func TestCompareInvoice_IsDeterministic(t *testing.T) {
	inv := baseInvoice()
	tx := matchingTransaction(inv)
	tx.EditSequence = "101"
	tx.BalanceRemaining = decimal.Zero
	tx.IsPaid = true
	tx.Memo = "paid in full"

	first, _ := compareInvoice(inv, tx)
	second, _ := compareInvoice(inv, tx)

	assert.Equal(t, first, second)
}

func TestCompareSalesReceipt_IgnoresBalanceAndPaid(t *testing.T) {
	sr := state.SalesReceiptRecord{
		TxnID:        "SR-1",
		Amount:       decimal.RequireFromString("80"),
		Status:       state.StatusOpen,
		EditSequence: "50",
	}
	tx := &gateway.Transaction{
		TxnID:            "SR-1",
		EditSequence:     "50",
		BalanceRemaining: decimal.Zero,
		IsPaid:           true,
	}

	details, current := compareSalesReceipt(sr, tx)

	assert.Empty(t, details)
	require.NotNil(t, current)
	assert.Nil(t, current.BalanceRemaining)
	assert.Nil(t, current.IsPaid)
}

func TestCompareStatementCharge_TracksVersionOnly(t *testing.T) {
	sc := state.StatementChargeRecord{
		TxnID:        "SC-1",
		EditSequence: "10",
		TimeModified: "2025-06-01T10:00:00",
	}
	tx := &gateway.Transaction{
		TxnID:        "SC-1",
		EditSequence: "11",
		TimeModified: "2025-06-01T10:00:00",
		Memo:         "charges have no memo tracking",
	}

	details, _ := compareStatementCharge(sc, tx)

	require.Len(t, details, 1)
	assert.Equal(t, "EditSequence changed from '10' to '11'", details[0])
}
