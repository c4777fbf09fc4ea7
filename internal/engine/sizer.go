package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Sizing policy constants. The factors bias limit prices just inside
// the spread so orders post as maker rather than taker.
var (
	usableBalanceFactor = decimal.RequireFromString("0.996")
	buyPriceBias        = decimal.RequireFromString("0.9996")
	sellPriceBias       = decimal.RequireFromString("1.0006")
	minOrderSize        = decimal.NewFromInt(1)
)

// BasePrice picks the order's reference price: the intent's explicit
// price when given, otherwise ask for buys and bid for sells. The
// result is always rounded to the fixed price precision.
func BasePrice(intent Intent, quote Quote) decimal.Decimal {
	if intent.Price != nil {
		return RoundPrice(*intent.Price)
	}
	if intent.Kind == KindBuy {
		return RoundPrice(quote.Ask)
	}
	return RoundPrice(quote.Bid)
}

// SizeBuy converts a buy intent into a sized order. A slice of the USD
// balance is held back as a fee and slippage buffer before sizing.
func SizeBuy(intent Intent, price decimal.Decimal, snapshot BalanceSnapshot) (SizedOrder, error) {
	if !price.IsPositive() {
		return SizedOrder{}, fmt.Errorf("%w: price must be positive, got %s", ErrValidation, price)
	}
	availableUSD := snapshot.Free("USD").Mul(usableBalanceFactor)

	amount := intent.Amount
	if intent.AmountAll {
		amount = availableUSD.Div(price)
	}
	if amount.LessThan(minOrderSize) {
		return SizedOrder{}, fmt.Errorf("%w: %s", ErrBelowMinimumSize, amount)
	}
	estimated := price.Mul(amount)
	if availableUSD.LessThan(estimated) {
		return SizedOrder{}, fmt.Errorf("%w: %s USD available, %s USD needed",
			ErrInsufficientFunds, availableUSD, estimated)
	}
	return SizedOrder{
		Side:              SideBuy,
		Symbol:            intent.Symbol,
		Amount:            amount,
		LimitPrice:        RoundPrice(price.Mul(buyPriceBias)),
		EstimatedValueUSD: estimated,
	}, nil
}

// SizeSell converts a sell intent into a sized order. The engine always
// liquidates the full free balance of the traded asset; any amount on
// the intent is ignored.
func SizeSell(intent Intent, price decimal.Decimal, snapshot BalanceSnapshot) (SizedOrder, error) {
	if !price.IsPositive() {
		return SizedOrder{}, fmt.Errorf("%w: price must be positive, got %s", ErrValidation, price)
	}
	asset := BaseAsset(intent.Symbol)
	amount := snapshot.Free(asset)
	if !amount.IsPositive() {
		return SizedOrder{}, fmt.Errorf("%w: no %s balance", ErrNoBalance, asset)
	}
	limit := RoundPrice(price.Mul(sellPriceBias))
	return SizedOrder{
		Side:              SideSell,
		Symbol:            intent.Symbol,
		Amount:            amount,
		LimitPrice:        limit,
		EstimatedValueUSD: limit.Mul(amount),
	}, nil
}
