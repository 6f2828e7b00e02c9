package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single dated cash investment into an asset. Transactions
// are immutable inputs; persistence is owned by the caller, not this core.
type Transaction struct {
	ID     string
	Asset  string
	Amount decimal.Decimal
	Date   time.Time
}

// EnrichedTransaction is a Transaction annotated with its mark-to-market
// outcome. Both fields are tagged variants, so a missing current price or an
// unresolvable purchase price never masquerades as a numeric result.
type EnrichedTransaction struct {
	Transaction
	CurrentValue Valuation
	ProfitLoss   Valuation
}
