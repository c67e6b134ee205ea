package state

import "time"

// Action is the closed set of state transitions understood by Reduce.
// The marker method seals the set to this package: workers and handlers
// dispatch these types and nothing else.
type Action interface {
	isAction()
}

type AddCustomer struct{ Customer Customer }

type SetCustomers struct{ Customers []Customer }

type AddInvoice struct{ Invoice InvoiceRecord }

type SetInvoices struct{ Invoices []InvoiceRecord }

// UpdateInvoice replaces the tracked invoice whose txn_id matches the
// payload. All other records keep their identity.
type UpdateInvoice struct{ Invoice InvoiceRecord }

type AddSalesReceipt struct{ SalesReceipt SalesReceiptRecord }

type SetSalesReceipts struct{ SalesReceipts []SalesReceiptRecord }

type UpdateSalesReceipt struct{ SalesReceipt SalesReceiptRecord }

type AddStatementCharge struct{ StatementCharge StatementChargeRecord }

type SetStatementCharges struct{ StatementCharges []StatementChargeRecord }

type UpdateStatementCharge struct{ StatementCharge StatementChargeRecord }

// ArchiveClosedTransactions marks closed invoices and sales receipts as
// archived. Statement charges are always considered completed, so every
// non-archived charge is archived too.
type ArchiveClosedTransactions struct{}

// ArchiveAllTransactions marks every non-archived transaction as
// archived regardless of status.
type ArchiveAllTransactions struct{}

// RemoveAllArchived drops archived transactions from the session. The
// records still exist in the external system.
type RemoveAllArchived struct{}

type SetVerificationResults struct{ Results []VerificationResult }

type SetMonitoring struct{ Active bool }

type UpdateLastSync struct{ At time.Time }

type SetExpectedDepositAccount struct{ Account string }

func (AddCustomer) isAction()               {}
func (SetCustomers) isAction()              {}
func (AddInvoice) isAction()                {}
func (SetInvoices) isAction()               {}
func (UpdateInvoice) isAction()             {}
func (AddSalesReceipt) isAction()           {}
func (SetSalesReceipts) isAction()          {}
func (UpdateSalesReceipt) isAction()        {}
func (AddStatementCharge) isAction()        {}
func (SetStatementCharges) isAction()       {}
func (UpdateStatementCharge) isAction()     {}
func (ArchiveClosedTransactions) isAction() {}
func (ArchiveAllTransactions) isAction()    {}
func (RemoveAllArchived) isAction()         {}
func (SetVerificationResults) isAction()    {}
func (SetMonitoring) isAction()             {}
func (UpdateLastSync) isAction()            {}
func (SetExpectedDepositAccount) isAction() {}
