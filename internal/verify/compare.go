package verify

import (
	"fmt"

	"github.com/nrchamb/QBDTestTool/internal/gateway"
	"github.com/nrchamb/QBDTestTool/internal/state"
)

// The comparators diff a local mirror against the external system's
// current record. Each emits zero or one human-readable description.
// The wording is load-bearing: operators grep session logs for these
// exact phrases.

func compareEditSequence(local, current string) (string, bool) {
	if local != "" && current != local {
		return fmt.Sprintf("EditSequence changed from '%s' to '%s'", local, current), true
	}
	return "", false
}

func compareTimeModified(local, current string) (string, bool) {
	if local != "" && current != local {
		return fmt.Sprintf("TimeModified changed from '%s' to '%s'", local, current), true
	}
	return "", false
}

func compareMemo(initial, current string) (string, bool) {
	if initial != "" && current != initial {
		return fmt.Sprintf("Memo changed from '%s' to '%s'", initial, current), true
	}
	return "", false
}

func compareDepositAccount(local, current string) (string, bool) {
	if current == "" {
		return "", false
	}
	if local != "" && current != local {
		return fmt.Sprintf("Deposit account changed from '%s' to '%s'", local, current), true
	}
	if local == "" {
		return fmt.Sprintf("Deposit account set to: %s", current), true
	}
	return "", false
}

// compareInvoice runs every invoice comparator and returns the ordered
// descriptions plus the current-data snapshot to attach on a modified
// result.
func compareInvoice(local state.InvoiceRecord, current *gateway.Transaction) ([]string, *state.CurrentData) {
	var details []string

	if d, ok := compareEditSequence(local.EditSequence, current.EditSequence); ok {
		details = append(details, d)
	}
	if d, ok := compareTimeModified(local.TimeModified, current.TimeModified); ok {
		details = append(details, d)
	}

	// A balance below the original amount means a payment was applied.
	if current.BalanceRemaining.LessThan(local.Amount) {
		payment := local.Amount.Sub(current.BalanceRemaining)
		details = append(details, fmt.Sprintf("Payment detected: $%s (balance: $%s)",
			payment.StringFixed(2), current.BalanceRemaining.StringFixed(2)))
	}

	if current.IsPaid && local.Status == state.StatusOpen {
		details = append(details, "Invoice marked as PAID")
	} else if !current.IsPaid && local.Status == state.StatusClosed {
		details = append(details, "Invoice marked as UNPAID (reopened)")
	}

	if d, ok := compareMemo(local.InitialMemo, current.Memo); ok {
		details = append(details, d)
	}
	if d, ok := compareDepositAccount(local.DepositAccount, current.DepositAccount); ok {
		details = append(details, d)
	}

	balance := current.BalanceRemaining
	isPaid := current.IsPaid
	return details, &state.CurrentData{
		BalanceRemaining: &balance,
		IsPaid:           &isPaid,
		EditSequence:     current.EditSequence,
		TimeModified:     current.TimeModified,
	}
}

// compareSalesReceipt diffs a sales receipt. Receipts carry no balance
// or paid-status tracking.
func compareSalesReceipt(local state.SalesReceiptRecord, current *gateway.Transaction) ([]string, *state.CurrentData) {
	var details []string

	if d, ok := compareEditSequence(local.EditSequence, current.EditSequence); ok {
		details = append(details, d)
	}
	if d, ok := compareTimeModified(local.TimeModified, current.TimeModified); ok {
		details = append(details, d)
	}
	if d, ok := compareMemo(local.InitialMemo, current.Memo); ok {
		details = append(details, d)
	}
	if d, ok := compareDepositAccount(local.DepositAccount, current.DepositAccount); ok {
		details = append(details, d)
	}

	return details, &state.CurrentData{
		EditSequence: current.EditSequence,
		TimeModified: current.TimeModified,
	}
}

// compareStatementCharge diffs a statement charge: only the version
// token and last-modified timestamp are tracked.
func compareStatementCharge(local state.StatementChargeRecord, current *gateway.Transaction) ([]string, *state.CurrentData) {
	var details []string

	if d, ok := compareEditSequence(local.EditSequence, current.EditSequence); ok {
		details = append(details, d)
	}
	if d, ok := compareTimeModified(local.TimeModified, current.TimeModified); ok {
		details = append(details, d)
	}

	return details, &state.CurrentData{
		EditSequence: current.EditSequence,
		TimeModified: current.TimeModified,
	}
}
