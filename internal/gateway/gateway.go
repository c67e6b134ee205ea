// Package gateway defines the boundary to the external QuickBooks
// Desktop session. The core never builds protocol payloads itself; it
// asks a Gateway for the authoritative record by txn_id and interprets
// the answer.
package gateway

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/nrchamb/QBDTestTool/internal/state"
)

// ErrNotFound is returned by QueryTransaction when the external system
// has no record with the requested txn_id. Any other error is a
// transport failure.
var ErrNotFound = errors.New("transaction not found")

// Transaction is the external system's current view of a record.
// EditSequence and TimeModified are opaque tokens; they change whenever
// the authoritative record is modified.
type Transaction struct {
	TxnID            string
	RefNumber        string
	Memo             string
	BalanceRemaining decimal.Decimal
	IsPaid           bool
	EditSequence     string
	TimeModified     string
	DepositAccount   string
}

// Availability reports whether the external system can be reached.
type Availability struct {
	Available bool
	Message   string
}

// Gateway is one logical session to the external system. At most one
// request may be in flight at a time; implementations enforce this.
//
//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=gateway
type Gateway interface {
	// QueryTransaction fetches the current authoritative record.
	// Returns ErrNotFound when the record no longer exists.
	QueryTransaction(ctx context.Context, kind state.TxnKind, txnID string) (*Transaction, error)

	// DeleteTransaction permanently deletes the record from the
	// external system.
	DeleteTransaction(ctx context.Context, kind state.TxnKind, txnID string) error

	// Probe performs a lightweight connectivity check. It never
	// returns an error; failures are reported in the Availability.
	Probe(ctx context.Context) Availability
}
