// Package bridge implements the gateway against the local QuickBooks
// bridge process, which exposes the desktop session over HTTP/JSON.
// The wire-level request language lives entirely in the bridge; this
// client only moves records.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nrchamb/QBDTestTool/internal/gateway"
	"github.com/nrchamb/QBDTestTool/internal/state"
)

// Client talks to the bridge over HTTP. The bridge holds one desktop
// session, so requests are serialized: at most one is in flight at a
// time regardless of how many goroutines call in.
type Client struct {
	baseURL string
	token   string
	client  *http.Client

	mu sync.Mutex // one in-flight request per desktop session
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type transactionPayload struct {
	TxnID            string          `json:"txn_id"`
	RefNumber        string          `json:"ref_number"`
	Memo             string          `json:"memo"`
	BalanceRemaining decimal.Decimal `json:"balance_remaining"`
	IsPaid           bool            `json:"is_paid"`
	EditSequence     string          `json:"edit_sequence"`
	TimeModified     string          `json:"time_modified"`
	DepositAccount   string          `json:"deposit_account"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// QueryTransaction fetches the current record from the bridge.
func (c *Client) QueryTransaction(ctx context.Context, kind state.TxnKind, txnID string) (*gateway.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := fmt.Sprintf("%s/transactions/%s/%s", c.baseURL, url.PathEscape(string(kind)), url.PathEscape(txnID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s %s: %w", kind, txnID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, gateway.ErrNotFound
	default:
		return nil, fmt.Errorf("querying %s %s: %s", kind, txnID, bridgeError(resp))
	}

	var payload transactionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response for %s %s: %w", kind, txnID, err)
	}

	return &gateway.Transaction{
		TxnID:            payload.TxnID,
		RefNumber:        payload.RefNumber,
		Memo:             payload.Memo,
		BalanceRemaining: payload.BalanceRemaining,
		IsPaid:           payload.IsPaid,
		EditSequence:     payload.EditSequence,
		TimeModified:     payload.TimeModified,
		DepositAccount:   payload.DepositAccount,
	}, nil
}

// DeleteTransaction permanently deletes the record from the external
// system via the bridge.
func (c *Client) DeleteTransaction(ctx context.Context, kind state.TxnKind, txnID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := fmt.Sprintf("%s/transactions/%s/%s", c.baseURL, url.PathEscape(string(kind)), url.PathEscape(txnID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", kind, txnID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return gateway.ErrNotFound
	default:
		return fmt.Errorf("deleting %s %s: %s", kind, txnID, bridgeError(resp))
	}
}

// Probe performs a lightweight connectivity check against the bridge.
func (c *Client) Probe(ctx context.Context) gateway.Availability {
	c.mu.Lock()
	defer c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return gateway.Availability{Message: err.Error()}
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return gateway.Availability{Message: fmt.Sprintf("QuickBooks bridge unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gateway.Availability{Message: fmt.Sprintf("QuickBooks bridge responded with error: %s", bridgeError(resp))}
	}

	return gateway.Availability{Available: true, Message: "QuickBooks Desktop is connected and ready"}
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
}

// bridgeError extracts the bridge's error message from a non-success
// response, falling back to the HTTP status.
func bridgeError(resp *http.Response) string {
	var payload errorPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("unexpected status code %d", resp.StatusCode)
}
