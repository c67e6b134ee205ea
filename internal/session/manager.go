// Package session persists the store-owned collections as a versioned
// JSON document and reloads them defensively: a corrupt file is
// quarantined under a timestamped name, never silently overwritten,
// and load failures surface as "no session" rather than errors the
// caller has to untangle.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nrchamb/QBDTestTool/internal/state"
)

// Version is the session document schema version.
const Version = "1.0"

// ErrNoSession is returned by Load and Info when there is no usable
// session: the file does not exist, or it was corrupt and has been
// quarantined.
var ErrNoSession = errors.New("no session data")

// Manager owns one session file path.
type Manager struct {
	path string
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

func (m *Manager) Path() string { return m.path }

// Snapshot is the on-disk session document. Unknown keys are ignored
// and missing collections decode as empty, so documents written by
// older or newer versions still load.
type Snapshot struct {
	Version          string            `json:"version"`
	LastSaved        time.Time         `json:"last_saved"`
	Customers        []Customer        `json:"customers"`
	Invoices         []Invoice         `json:"invoices"`
	SalesReceipts    []SalesReceipt    `json:"sales_receipts"`
	StatementCharges []StatementCharge `json:"statement_charges"`
}

type Customer struct {
	ListID string `json:"list_id"`
	Name   string `json:"name"`
	// Pointer so a document predating the flag reads as "created by
	// this tool", which is the only kind ever written.
	CreatedByApp *bool     `json:"created_by_app"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

type Invoice struct {
	TxnID            string            `json:"txn_id"`
	RefNumber        string            `json:"ref_number"`
	CustomerName     string            `json:"customer_name"`
	Amount           decimal.Decimal   `json:"amount"`
	BalanceRemaining decimal.Decimal   `json:"balance_remaining"`
	Status           string            `json:"status"`
	InitialMemo      string            `json:"initial_memo"`
	CreatedAt        time.Time         `json:"created_at,omitzero"`
	EditSequence     string            `json:"edit_sequence"`
	TimeModified     string            `json:"time_modified"`
	DepositAccount   string            `json:"deposit_account"`
	PaymentInfo      map[string]string `json:"payment_info"`
}

type SalesReceipt struct {
	TxnID            string            `json:"txn_id"`
	RefNumber        string            `json:"ref_number"`
	CustomerName     string            `json:"customer_name"`
	Amount           decimal.Decimal   `json:"amount"`
	BalanceRemaining decimal.Decimal   `json:"balance_remaining"`
	Status           string            `json:"status"`
	InitialMemo      string            `json:"initial_memo"`
	CreatedAt        time.Time         `json:"created_at,omitzero"`
	EditSequence     string            `json:"edit_sequence"`
	TimeModified     string            `json:"time_modified"`
	DepositAccount   string            `json:"deposit_account"`
	PaymentInfo      map[string]string `json:"payment_info"`
}

type StatementCharge struct {
	TxnID        string          `json:"txn_id"`
	RefNumber    string          `json:"ref_number"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at,omitzero"`
	EditSequence string          `json:"edit_sequence"`
	TimeModified string          `json:"time_modified"`
}

// Info is session metadata computed without materializing typed
// records: counts are read straight off the raw collections.
type Info struct {
	LastSaved        time.Time `json:"last_saved"`
	TotalItems       int       `json:"total_items"`
	Customers        int       `json:"customers"`
	Invoices         int       `json:"invoices"`
	SalesReceipts    int       `json:"sales_receipts"`
	StatementCharges int       `json:"statement_charges"`
}

// Save writes the store-owned collections to the session file. Only
// customers created by this tool are included.
func (m *Manager) Save(s state.AppState) error {
	snapshot := Snapshot{
		Version:          Version,
		LastSaved:        time.Now(),
		Customers:        make([]Customer, 0, len(s.Customers)),
		Invoices:         make([]Invoice, 0, len(s.Invoices)),
		SalesReceipts:    make([]SalesReceipt, 0, len(s.SalesReceipts)),
		StatementCharges: make([]StatementCharge, 0, len(s.StatementCharges)),
	}

	for _, c := range s.Customers {
		if !c.CreatedByApp {
			continue
		}
		createdByApp := c.CreatedByApp
		snapshot.Customers = append(snapshot.Customers, Customer{
			ListID:       c.ListID,
			Name:         c.Name,
			FullName:     c.FullName,
			Email:        c.Email,
			CreatedByApp: &createdByApp,
			CreatedAt:    c.CreatedAt,
		})
	}

	for _, inv := range s.Invoices {
		snapshot.Invoices = append(snapshot.Invoices, Invoice{
			TxnID:            inv.TxnID,
			RefNumber:        inv.RefNumber,
			CustomerName:     inv.CustomerName,
			Amount:           inv.Amount,
			BalanceRemaining: inv.BalanceRemaining,
			Status:           string(inv.Status),
			InitialMemo:      inv.InitialMemo,
			CreatedAt:        inv.CreatedAt,
			EditSequence:     inv.EditSequence,
			TimeModified:     inv.TimeModified,
			DepositAccount:   inv.DepositAccount,
			PaymentInfo:      inv.PaymentInfo,
		})
	}

	for _, sr := range s.SalesReceipts {
		snapshot.SalesReceipts = append(snapshot.SalesReceipts, SalesReceipt{
			TxnID:            sr.TxnID,
			RefNumber:        sr.RefNumber,
			CustomerName:     sr.CustomerName,
			Amount:           sr.Amount,
			BalanceRemaining: sr.BalanceRemaining,
			Status:           string(sr.Status),
			InitialMemo:      sr.InitialMemo,
			CreatedAt:        sr.CreatedAt,
			EditSequence:     sr.EditSequence,
			TimeModified:     sr.TimeModified,
			DepositAccount:   sr.DepositAccount,
			PaymentInfo:      sr.PaymentInfo,
		})
	}

	for _, sc := range s.StatementCharges {
		snapshot.StatementCharges = append(snapshot.StatementCharges, StatementCharge{
			TxnID:        sc.TxnID,
			RefNumber:    sc.RefNumber,
			CustomerName: sc.CustomerName,
			Amount:       sc.Amount,
			Status:       string(sc.Status),
			CreatedAt:    sc.CreatedAt,
			EditSequence: sc.EditSequence,
			TimeModified: sc.TimeModified,
		})
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}

// Load reads and parses the session file. A missing file returns
// ErrNoSession. A file that cannot be decoded is renamed to a
// timestamped backup and also reported as ErrNoSession; the original
// bytes are never deleted.
func (m *Manager) Load() (*Snapshot, error) {
	data, err := m.readNormalized()
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		m.quarantine(err)
		return nil, ErrNoSession
	}

	return &snapshot, nil
}

// Info returns counts and the last-saved timestamp without mapping the
// collections into typed records.
func (m *Manager) Info() (*Info, error) {
	data, err := m.readNormalized()
	if err != nil {
		return nil, err
	}

	var raw struct {
		LastSaved        time.Time         `json:"last_saved"`
		Customers        []json.RawMessage `json:"customers"`
		Invoices         []json.RawMessage `json:"invoices"`
		SalesReceipts    []json.RawMessage `json:"sales_receipts"`
		StatementCharges []json.RawMessage `json:"statement_charges"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		m.quarantine(err)
		return nil, ErrNoSession
	}

	return &Info{
		LastSaved:        raw.LastSaved,
		TotalItems:       len(raw.Customers) + len(raw.Invoices) + len(raw.SalesReceipts) + len(raw.StatementCharges),
		Customers:        len(raw.Customers),
		Invoices:         len(raw.Invoices),
		SalesReceipts:    len(raw.SalesReceipts),
		StatementCharges: len(raw.StatementCharges),
	}, nil
}

// Clear deletes the session file.
func (m *Manager) Clear() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Exists reports whether a session file is present.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

func (m *Manager) readNormalized() ([]byte, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	data, err := normalizeSessionBytes(raw)
	if err != nil {
		m.quarantine(err)
		return nil, ErrNoSession
	}

	return data, nil
}

// quarantine renames the session file to a timestamped backup so a bad
// document is preserved for inspection instead of overwritten.
func (m *Manager) quarantine(cause error) {
	backup := filepath.Join(filepath.Dir(m.path),
		fmt.Sprintf("session_data_corrupted_%s.json", time.Now().Format("20060102_150405")))

	if err := os.Rename(m.path, backup); err != nil {
		slog.Error("failed to quarantine corrupt session file", "path", m.path, "error", err)
		return
	}

	slog.Warn("corrupt session file quarantined", "backup", backup, "cause", cause)
}

// Restore replaces the store's collections with the loaded snapshot
// through the bulk SET actions, applying the same defaults the session
// format allows to be absent. Replacing rather than appending keeps
// txn_id unique within each collection no matter how many times a
// session is loaded.
func (m *Manager) Restore(store *state.Store, snapshot *Snapshot) {
	now := time.Now()

	customers := make([]state.Customer, 0, len(snapshot.Customers))
	for _, c := range snapshot.Customers {
		if c.ListID == "" && c.Name == "" {
			continue
		}
		createdByApp := true
		if c.CreatedByApp != nil {
			createdByApp = *c.CreatedByApp
		}
		customers = append(customers, state.Customer{
			ListID:       c.ListID,
			Name:         c.Name,
			FullName:     c.FullName,
			Email:        c.Email,
			CreatedByApp: createdByApp,
			CreatedAt:    orNow(c.CreatedAt, now),
		})
	}
	store.Dispatch(state.SetCustomers{Customers: customers})

	invoices := make([]state.InvoiceRecord, 0, len(snapshot.Invoices))
	for _, inv := range snapshot.Invoices {
		invoices = append(invoices, state.InvoiceRecord{
			TxnID:            inv.TxnID,
			RefNumber:        inv.RefNumber,
			CustomerName:     inv.CustomerName,
			Amount:           inv.Amount,
			BalanceRemaining: inv.BalanceRemaining,
			Status:           orStatus(inv.Status, state.StatusOpen),
			CreatedAt:        orNow(inv.CreatedAt, now),
			InitialMemo:      inv.InitialMemo,
			EditSequence:     inv.EditSequence,
			TimeModified:     inv.TimeModified,
			DepositAccount:   inv.DepositAccount,
			PaymentInfo:      inv.PaymentInfo,
		})
	}
	store.Dispatch(state.SetInvoices{Invoices: invoices})

	receipts := make([]state.SalesReceiptRecord, 0, len(snapshot.SalesReceipts))
	for _, sr := range snapshot.SalesReceipts {
		receipts = append(receipts, state.SalesReceiptRecord{
			TxnID:            sr.TxnID,
			RefNumber:        sr.RefNumber,
			CustomerName:     sr.CustomerName,
			Amount:           sr.Amount,
			BalanceRemaining: sr.BalanceRemaining,
			Status:           orStatus(sr.Status, state.StatusOpen),
			CreatedAt:        orNow(sr.CreatedAt, now),
			InitialMemo:      sr.InitialMemo,
			EditSequence:     sr.EditSequence,
			TimeModified:     sr.TimeModified,
			DepositAccount:   sr.DepositAccount,
			PaymentInfo:      sr.PaymentInfo,
		})
	}
	store.Dispatch(state.SetSalesReceipts{SalesReceipts: receipts})

	charges := make([]state.StatementChargeRecord, 0, len(snapshot.StatementCharges))
	for _, sc := range snapshot.StatementCharges {
		charges = append(charges, state.StatementChargeRecord{
			TxnID:        sc.TxnID,
			RefNumber:    sc.RefNumber,
			CustomerName: sc.CustomerName,
			Amount:       sc.Amount,
			Status:       orStatus(sc.Status, state.StatusCompleted),
			CreatedAt:    orNow(sc.CreatedAt, now),
			EditSequence: sc.EditSequence,
			TimeModified: sc.TimeModified,
		})
	}
	store.Dispatch(state.SetStatementCharges{StatementCharges: charges})
}

func orNow(t time.Time, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}

func orStatus(s string, fallback state.Status) state.Status {
	if s == "" {
		return fallback
	}
	return state.Status(s)
}
