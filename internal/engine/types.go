package engine

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type IntentKind string

const (
	KindBuy     IntentKind = "buy"
	KindSell    IntentKind = "sell"
	KindBalance IntentKind = "balance"
)

// Intent is the caller-supplied description of a desired trade,
// immutable once parsed at the boundary.
type Intent struct {
	Kind   IntentKind
	Symbol string

	// AmountAll selects full-balance sizing ("ALL" on the wire).
	AmountAll bool
	Amount    decimal.Decimal

	// Price overrides the quoted market price when non-nil.
	Price *decimal.Decimal
}

// Quote is a fresh per-request market snapshot, never cached.
type Quote struct {
	Bid  decimal.Decimal
	Ask  decimal.Decimal
	Last decimal.Decimal
}

// BalanceSnapshot maps asset symbol to its free (available) amount.
type BalanceSnapshot map[string]decimal.Decimal

func (b BalanceSnapshot) Free(asset string) decimal.Decimal {
	if amount, ok := b[asset]; ok {
		return amount
	}
	return decimal.Zero
}

// OrderResult is the exchange's order record, passed through to the
// caller verbatim.
type OrderResult map[string]any

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// SizedOrder is a funds-checked, price-adjusted limit order ready for
// submission. Amount is always positive and buys are always covered by
// available USD.
type SizedOrder struct {
	Side              Side
	Symbol            string
	Amount            decimal.Decimal
	LimitPrice        decimal.Decimal
	EstimatedValueUSD decimal.Decimal
}

// Exchange is the remote trading collaborator. Implementations are
// constructor-injected; the engine never builds its own client.
type Exchange interface {
	FetchBalance(ctx context.Context) (BalanceSnapshot, error)
	FetchTicker(ctx context.Context, symbol string) (Quote, error)
	CreateLimitBuyOrder(ctx context.Context, symbol string, amount, price decimal.Decimal) (OrderResult, error)
	CreateLimitSellOrder(ctx context.Context, symbol string, amount, price decimal.Decimal) (OrderResult, error)
	CancelAllOrders(ctx context.Context) error
}

// PriceDecimals is the fixed precision for every price sent to the
// exchange.
const PriceDecimals = 8

// RoundPrice rounds half away from zero to 8 decimals.
func RoundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(PriceDecimals)
}

// BaseAsset extracts the traded asset from a pair symbol, accepting
// both exchange-native ("ethusd") and slash ("ETH/USD") forms.
func BaseAsset(symbol string) string {
	if base, _, ok := strings.Cut(symbol, "/"); ok {
		return strings.ToUpper(base)
	}
	upper := strings.ToUpper(symbol)
	if len(upper) > 3 && strings.HasSuffix(upper, "USD") {
		return strings.TrimSuffix(upper, "USD")
	}
	return upper
}

// USDPair is the exchange-native USD pair symbol for an asset.
func USDPair(asset string) string {
	return strings.ToLower(asset) + "usd"
}
