package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyPrices is one archive bucket: closing prices keyed by date string
// (2006-01-02). Only trading days are present.
type MonthlyPrices map[string]decimal.Decimal

// ResolvedPrice is the outcome of a forward trading-day probe: the first
// stored price on or after the nominal date, and the date it was found on.
type ResolvedPrice struct {
	Price decimal.Decimal
	Date  time.Time
}

// DenseSeries maps asset -> date string -> price for every calendar day in a
// loaded range, after forward-filling non-trading days. Days before an
// asset's first stored price stay absent.
type DenseSeries map[string]map[string]decimal.Decimal

func (s DenseSeries) Price(asset, date string) (decimal.Decimal, bool) {
	if prices, ok := s[asset]; ok {
		if price, ok := prices[date]; ok {
			return price, true
		}
	}
	return decimal.Zero, false
}
