package state

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nrchamb/QBDTestTool/internal/state"
)

type customerResponse struct {
	ListID       string    `json:"list_id"`
	Name         string    `json:"name"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	CreatedByApp bool      `json:"created_by_app"`
	CreatedAt    time.Time `json:"created_at"`
}

func toCustomerResponse(c state.Customer) customerResponse {
	return customerResponse{
		ListID:       c.ListID,
		Name:         c.Name,
		FullName:     c.FullName,
		Email:        c.Email,
		CreatedByApp: c.CreatedByApp,
		CreatedAt:    c.CreatedAt,
	}
}

type transactionResponse struct {
	Kind             state.TxnKind     `json:"kind"`
	TxnID            string            `json:"txn_id"`
	RefNumber        string            `json:"ref_number"`
	CustomerName     string            `json:"customer_name"`
	Amount           decimal.Decimal   `json:"amount"`
	BalanceRemaining *decimal.Decimal  `json:"balance_remaining,omitempty"`
	Status           state.Status      `json:"status"`
	Archived         bool              `json:"archived"`
	CreatedAt        time.Time         `json:"created_at"`
	InitialMemo      string            `json:"initial_memo,omitempty"`
	EditSequence     string            `json:"edit_sequence,omitempty"`
	TimeModified     string            `json:"time_modified,omitempty"`
	DepositAccount   string            `json:"deposit_account,omitempty"`
	PaymentInfo      map[string]string `json:"payment_info,omitempty"`
}

func toInvoiceResponse(inv state.InvoiceRecord) transactionResponse {
	balance := inv.BalanceRemaining
	return transactionResponse{
		Kind:             state.KindInvoice,
		TxnID:            inv.TxnID,
		RefNumber:        inv.RefNumber,
		CustomerName:     inv.CustomerName,
		Amount:           inv.Amount,
		BalanceRemaining: &balance,
		Status:           inv.Status,
		Archived:         inv.Archived,
		CreatedAt:        inv.CreatedAt,
		InitialMemo:      inv.InitialMemo,
		EditSequence:     inv.EditSequence,
		TimeModified:     inv.TimeModified,
		DepositAccount:   inv.DepositAccount,
		PaymentInfo:      inv.PaymentInfo,
	}
}

func toSalesReceiptResponse(sr state.SalesReceiptRecord) transactionResponse {
	balance := sr.BalanceRemaining
	return transactionResponse{
		Kind:             state.KindSalesReceipt,
		TxnID:            sr.TxnID,
		RefNumber:        sr.RefNumber,
		CustomerName:     sr.CustomerName,
		Amount:           sr.Amount,
		BalanceRemaining: &balance,
		Status:           sr.Status,
		Archived:         sr.Archived,
		CreatedAt:        sr.CreatedAt,
		InitialMemo:      sr.InitialMemo,
		EditSequence:     sr.EditSequence,
		TimeModified:     sr.TimeModified,
		DepositAccount:   sr.DepositAccount,
		PaymentInfo:      sr.PaymentInfo,
	}
}

func toStatementChargeResponse(sc state.StatementChargeRecord) transactionResponse {
	return transactionResponse{
		Kind:         state.KindStatementCharge,
		TxnID:        sc.TxnID,
		RefNumber:    sc.RefNumber,
		CustomerName: sc.CustomerName,
		Amount:       sc.Amount,
		Status:       sc.Status,
		Archived:     sc.Archived,
		CreatedAt:    sc.CreatedAt,
		EditSequence: sc.EditSequence,
		TimeModified: sc.TimeModified,
	}
}
