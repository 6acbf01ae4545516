package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/kabylesystem/xrpl-hackaton/internal/model"
	"github.com/kabylesystem/xrpl-hackaton/xrp"

	"github.com/gorilla/websocket"
)

const (
	dialTimeout  = 10 * time.Second
	pollInterval = 2 * time.Second
)

// XRPLClient talks to a rippled node over its websocket API. Requests are
// serialized on one connection; each call is a single request/response
// round trip matched by id.
type XRPLClient struct {
	url string

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
}

// NewXRPLClient creates a client for the given websocket endpoint
// (e.g. wss://s.altnet.rippletest.net:51233). The connection is dialed
// lazily on first use and redialed after errors.
func NewXRPLClient(url string) *XRPLClient {
	return &XRPLClient{url: url}
}

// Close shuts the underlying connection down.
func (c *XRPLClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// rpcError is a rippled-level error response (status "error").
type rpcError struct {
	Code    string
	Message string
}

func (e *rpcError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

type wsResponse struct {
	ID           uint64          `json:"id"`
	Status       string          `json:"status"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
	Result       json.RawMessage `json:"result"`
}

// request performs one round trip. Transport failures drop the connection
// and come back as NetworkError; rippled-level failures come back as
// rpcError.
func (c *XRPLClient) request(ctx context.Context, op string, payload map[string]any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.url, nil)
		if err != nil {
			return nil, &model.NetworkError{Op: op, Err: err}
		}
		c.conn = conn
	}

	c.nextID++
	payload["id"] = c.nextID

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		_ = c.conn.SetReadDeadline(deadline)
	} else {
		_ = c.conn.SetWriteDeadline(time.Time{})
		_ = c.conn.SetReadDeadline(time.Time{})
	}

	if err := c.conn.WriteJSON(payload); err != nil {
		c.dropConn()
		return nil, &model.NetworkError{Op: op, Err: err}
	}

	// Skip unsolicited stream messages until our id comes back.
	for {
		var resp wsResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.dropConn()
			return nil, &model.NetworkError{Op: op, Err: err}
		}
		if resp.ID != c.nextID {
			continue
		}
		if resp.Status == "error" {
			return nil, &rpcError{Code: resp.Error, Message: resp.ErrorMessage}
		}
		return resp.Result, nil
	}
}

func (c *XRPLClient) dropConn() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// AccountInfo returns the validated sequence and balance for an address.
// A missing account maps to xrp.ErrAccountNotFound.
func (c *XRPLClient) AccountInfo(ctx context.Context, address string) (xrp.AccountInfo, error) {
	raw, err := c.request(ctx, "account_info", map[string]any{
		"command":      "account_info",
		"account":      address,
		"ledger_index": "validated",
	})
	if err != nil {
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) && rpcErr.Code == "actNotFound" {
			return xrp.AccountInfo{}, fmt.Errorf("account_info %s: %w", address, xrp.ErrAccountNotFound)
		}
		return xrp.AccountInfo{}, err
	}

	var result struct {
		AccountData struct {
			Sequence uint32 `json:"Sequence"`
			Balance  string `json:"Balance"`
		} `json:"account_data"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return xrp.AccountInfo{}, fmt.Errorf("failed to decode account_info: %w", err)
	}

	balance, err := strconv.ParseUint(result.AccountData.Balance, 10, 64)
	if err != nil {
		return xrp.AccountInfo{}, fmt.Errorf("failed to parse balance: %w", err)
	}

	return xrp.AccountInfo{
		Sequence:     result.AccountData.Sequence,
		BalanceDrops: balance,
	}, nil
}

// Fee returns the current base fee in drops.
func (c *XRPLClient) Fee(ctx context.Context) (string, error) {
	raw, err := c.request(ctx, "fee", map[string]any{"command": "fee"})
	if err != nil {
		return "", err
	}

	var result struct {
		Drops struct {
			BaseFee string `json:"base_fee"`
		} `json:"drops"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to decode fee: %w", err)
	}
	return result.Drops.BaseFee, nil
}

// LedgerIndex returns the latest validated ledger index.
func (c *XRPLClient) LedgerIndex(ctx context.Context) (uint32, error) {
	raw, err := c.request(ctx, "ledger", map[string]any{
		"command":      "ledger",
		"ledger_index": "validated",
	})
	if err != nil {
		return 0, err
	}

	var result struct {
		LedgerIndex uint32 `json:"ledger_index"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return 0, fmt.Errorf("failed to decode ledger: %w", err)
	}
	return result.LedgerIndex, nil
}

// SubmitResult is the ledger's classification of a submitted blob.
type SubmitResult struct {
	EngineResult        string
	EngineResultMessage string
	Hash                string
	Validated           bool
}

// Submit fires a signed blob at the ledger and returns the preliminary
// engine result without waiting for validation.
func (c *XRPLClient) Submit(ctx context.Context, blob string) (SubmitResult, error) {
	raw, err := c.request(ctx, "submit", map[string]any{
		"command": "submit",
		"tx_blob": blob,
	})
	if err != nil {
		return SubmitResult{}, err
	}

	var result struct {
		EngineResult        string `json:"engine_result"`
		EngineResultMessage string `json:"engine_result_message"`
		TxJSON              struct {
			Hash string `json:"hash"`
		} `json:"tx_json"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return SubmitResult{}, fmt.Errorf("failed to decode submit result: %w", err)
	}

	return SubmitResult{
		EngineResult:        result.EngineResult,
		EngineResultMessage: result.EngineResultMessage,
		Hash:                result.TxJSON.Hash,
	}, nil
}

// SubmitAndWait submits a blob and blocks until the transaction appears
// in a validated ledger, its validity window passes, or the context ends.
// A preliminary rejection (anything outside tes/terQUEUED) is returned
// immediately; expiry comes back as tefMAX_LEDGER. Never retries.
func (c *XRPLClient) SubmitAndWait(ctx context.Context, blob string) (SubmitResult, error) {
	preliminary, err := c.Submit(ctx, blob)
	if err != nil {
		return SubmitResult{}, err
	}
	if preliminary.EngineResult != "tesSUCCESS" && preliminary.EngineResult != "terQUEUED" {
		return preliminary, nil
	}

	// The blob carries its own validity window.
	tx, err := xrp.DecodeTx(blob)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to decode submitted blob: %w", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return SubmitResult{}, &model.NetworkError{Op: "submit_and_wait", Err: ctx.Err()}
		case <-ticker.C:
		}

		final, found, err := c.txResult(ctx, preliminary.Hash)
		if err != nil {
			return SubmitResult{}, err
		}
		if found && final.Validated {
			return final, nil
		}

		index, err := c.LedgerIndex(ctx)
		if err != nil {
			return SubmitResult{}, err
		}
		if index > tx.LastLedgerSequence {
			return SubmitResult{
				EngineResult:        "tefMAX_LEDGER",
				EngineResultMessage: "transaction validity window passed without validation",
				Hash:                preliminary.Hash,
			}, nil
		}
	}
}

// txResult polls one transaction by hash. found is false while the
// ledger doesn't know the hash yet.
func (c *XRPLClient) txResult(ctx context.Context, hash string) (SubmitResult, bool, error) {
	raw, err := c.request(ctx, "tx", map[string]any{
		"command":     "tx",
		"transaction": hash,
	})
	if err != nil {
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) && rpcErr.Code == "txnNotFound" {
			return SubmitResult{}, false, nil
		}
		return SubmitResult{}, false, err
	}

	var result struct {
		Validated bool `json:"validated"`
		Meta      struct {
			TransactionResult string `json:"TransactionResult"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return SubmitResult{}, false, fmt.Errorf("failed to decode tx result: %w", err)
	}

	return SubmitResult{
		EngineResult: result.Meta.TransactionResult,
		Hash:         hash,
		Validated:    result.Validated,
	}, result.Validated, nil
}
