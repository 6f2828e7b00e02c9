package domain

import "github.com/shopspring/decimal"

// HistoryPoint is one calendar day of the reconstructed equity curve.
// All values are rounded to 2 decimal places on emit.
type HistoryPoint struct {
	Date             string
	PortfolioValue   decimal.Decimal
	TotalInvested    decimal.Decimal
	CumulativeProfit decimal.Decimal
}
