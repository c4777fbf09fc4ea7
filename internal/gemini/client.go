package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gemini-exec-bridge/internal/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client is the Gemini REST exchange collaborator. It satisfies
// engine.Exchange.
type Client struct {
	baseURL string
	http    *http.Client
	signer  *Signer
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, signer *Signer, log *zap.Logger) (*Client, error) {
	if signer == nil {
		return nil, errors.New("signer is required")
	}
	if baseURL == "" {
		baseURL = "https://api.gemini.com"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		signer: signer,
		log:    log,
	}, nil
}

type tickerResponse struct {
	Bid  string `json:"bid"`
	Ask  string `json:"ask"`
	Last string `json:"last"`
}

func (c *Client) FetchTicker(ctx context.Context, symbol string) (engine.Quote, error) {
	url := c.baseURL + "/v1/pubticker/" + strings.ToLower(strings.TrimSpace(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return engine.Quote{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return engine.Quote{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return engine.Quote{}, fmt.Errorf("ticker %s: http %d: %s", symbol, resp.StatusCode, string(body))
	}
	var ticker tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return engine.Quote{}, err
	}
	return parseQuote(ticker)
}

func parseQuote(ticker tickerResponse) (engine.Quote, error) {
	bid, err := decimal.NewFromString(ticker.Bid)
	if err != nil {
		return engine.Quote{}, fmt.Errorf("invalid bid %q: %w", ticker.Bid, err)
	}
	ask, err := decimal.NewFromString(ticker.Ask)
	if err != nil {
		return engine.Quote{}, fmt.Errorf("invalid ask %q: %w", ticker.Ask, err)
	}
	last, err := decimal.NewFromString(ticker.Last)
	if err != nil {
		return engine.Quote{}, fmt.Errorf("invalid last %q: %w", ticker.Last, err)
	}
	return engine.Quote{Bid: bid, Ask: ask, Last: last}, nil
}

type balanceEntry struct {
	Currency  string `json:"currency"`
	Available string `json:"available"`
}

func (c *Client) FetchBalance(ctx context.Context) (engine.BalanceSnapshot, error) {
	var entries []balanceEntry
	if err := c.private(ctx, "/v1/balances", nil, &entries); err != nil {
		return nil, err
	}
	snapshot := make(engine.BalanceSnapshot, len(entries))
	for _, entry := range entries {
		available, err := decimal.NewFromString(entry.Available)
		if err != nil {
			return nil, fmt.Errorf("invalid %s balance %q: %w", entry.Currency, entry.Available, err)
		}
		snapshot[strings.ToUpper(entry.Currency)] = available
	}
	return snapshot, nil
}

func (c *Client) CreateLimitBuyOrder(ctx context.Context, symbol string, amount, price decimal.Decimal) (engine.OrderResult, error) {
	return c.newOrder(ctx, symbol, amount, price, "buy")
}

func (c *Client) CreateLimitSellOrder(ctx context.Context, symbol string, amount, price decimal.Decimal) (engine.OrderResult, error) {
	return c.newOrder(ctx, symbol, amount, price, "sell")
}

func (c *Client) newOrder(ctx context.Context, symbol string, amount, price decimal.Decimal, side string) (engine.OrderResult, error) {
	params := map[string]any{
		"client_order_id": uuid.NewString(),
		"symbol":          strings.ToLower(strings.TrimSpace(symbol)),
		"amount":          amount.String(),
		"price":           price.String(),
		"side":            side,
		"type":            "exchange limit",
	}
	var result engine.OrderResult
	if err := c.private(ctx, "/v1/order/new", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CancelAllOrders(ctx context.Context) error {
	return c.private(ctx, "/v1/order/cancel/all", nil, nil)
}

// private performs an authenticated POST. Gemini carries the request
// parameters in the signed X-GEMINI-PAYLOAD header, not the body.
func (c *Client) private(ctx context.Context, path string, params map[string]any, out any) error {
	payload := map[string]any{
		"request": path,
		"nonce":   c.signer.NextNonce(),
	}
	for key, val := range params {
		payload[key] = val
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Cache-Control", "no-cache")
	for key, val := range c.signer.Headers(body) {
		req.Header.Set(key, val)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s: http %d: %s", path, resp.StatusCode, string(msg))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
