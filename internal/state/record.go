package state

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnKind identifies one of the three tracked transaction kinds.
type TxnKind string

const (
	KindInvoice         TxnKind = "invoice"
	KindSalesReceipt    TxnKind = "sales_receipt"
	KindStatementCharge TxnKind = "statement_charge"
)

// Status represents the lifecycle state of a tracked transaction.
type Status string

const (
	StatusOpen      Status = "open"
	StatusClosed    Status = "closed"
	StatusCompleted Status = "completed"
)

// ChangeType classifies the outcome of verifying one record against
// the external system.
type ChangeType string

const (
	ChangeUnchanged ChangeType = "unchanged"
	ChangeModified  ChangeType = "modified"
	ChangeDeleted   ChangeType = "deleted"
	ChangeError     ChangeType = "error"
)

// Severity indicates how a verification result should be surfaced.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Customer is a customer tracked this session. Only customers with
// CreatedByApp set are persisted.
type Customer struct {
	ListID       string
	Name         string
	FullName     string
	Email        string
	CreatedByApp bool
	CreatedAt    time.Time
}

// InvoiceRecord mirrors an invoice as captured at creation time.
// Amount is fixed at creation; EditSequence and TimeModified hold the
// external system's last known version token and are refreshed only by
// full-record updates after reconciliation.
type InvoiceRecord struct {
	TxnID            string
	RefNumber        string
	CustomerName     string
	Amount           decimal.Decimal
	BalanceRemaining decimal.Decimal
	Status           Status
	Archived         bool
	CreatedAt        time.Time
	InitialMemo      string
	EditSequence     string
	TimeModified     string
	DepositAccount   string
	PaymentInfo      map[string]string
}

// WithArchived returns a copy with the archived flag set.
func (r InvoiceRecord) WithArchived(archived bool) InvoiceRecord {
	r.Archived = archived
	return r
}

// SalesReceiptRecord mirrors a sales receipt as captured at creation time.
type SalesReceiptRecord struct {
	TxnID            string
	RefNumber        string
	CustomerName     string
	Amount           decimal.Decimal
	BalanceRemaining decimal.Decimal
	Status           Status
	Archived         bool
	CreatedAt        time.Time
	InitialMemo      string
	EditSequence     string
	TimeModified     string
	DepositAccount   string
	PaymentInfo      map[string]string
}

// WithArchived returns a copy with the archived flag set.
func (r SalesReceiptRecord) WithArchived(archived bool) SalesReceiptRecord {
	r.Archived = archived
	return r
}

// StatementChargeRecord mirrors a statement charge. Charges carry no
// balance or memo tracking; they are considered completed on creation.
type StatementChargeRecord struct {
	TxnID        string
	RefNumber    string
	CustomerName string
	Amount       decimal.Decimal
	Status       Status
	Archived     bool
	CreatedAt    time.Time
	EditSequence string
	TimeModified string
}

// WithArchived returns a copy with the archived flag set.
func (r StatementChargeRecord) WithArchived(archived bool) StatementChargeRecord {
	r.Archived = archived
	return r
}

// CurrentData is the snapshot of the external system's record attached
// to a modified verification result. Fields not tracked for a kind are
// left nil.
type CurrentData struct {
	BalanceRemaining *decimal.Decimal `json:"balance_remaining,omitempty"`
	IsPaid           *bool            `json:"is_paid,omitempty"`
	EditSequence     string           `json:"edit_sequence"`
	TimeModified     string           `json:"time_modified"`
}

// VerificationResult records the outcome of reconciling one tracked
// transaction against the external system.
type VerificationResult struct {
	Kind         TxnKind      `json:"type"`
	RefNumber    string       `json:"ref_number"`
	TxnID        string       `json:"txn_id"`
	CustomerName string       `json:"customer_name,omitempty"`
	ChangeType   ChangeType   `json:"change_type"`
	Details      []string     `json:"details"`
	Severity     Severity     `json:"severity"`
	CurrentData  *CurrentData `json:"current_data,omitempty"`
}
