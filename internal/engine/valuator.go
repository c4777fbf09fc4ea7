package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceLookup resolves an asset's last-trade price against USD.
type PriceLookup func(ctx context.Context, asset string) (decimal.Decimal, error)

// TotalUSD folds a balance snapshot into a single USD total: the free
// USD balance plus every positively-held asset valued at its spot
// price. One lookup per asset, no caching; a failed lookup fails the
// whole computation rather than returning a partial total.
func TotalUSD(ctx context.Context, snapshot BalanceSnapshot, lookup PriceLookup) (decimal.Decimal, error) {
	total := snapshot.Free("USD")
	for asset, free := range snapshot {
		if asset == "USD" || !free.IsPositive() {
			continue
		}
		price, err := lookup(ctx, asset)
		if err != nil {
			return decimal.Zero, fmt.Errorf("price lookup for %s: %w", asset, err)
		}
		total = total.Add(free.Mul(price))
	}
	return total, nil
}

// FormatUSD renders a dollar amount as "$1,234.56".
func FormatUSD(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return sign + "$" + b.String() + "." + frac
}
