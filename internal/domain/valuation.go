package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type ValuationStatus int

const (
	// ValuationOk carries a numeric result.
	ValuationOk ValuationStatus = iota
	// ValuationUnavailable means no current price is known for the asset.
	ValuationUnavailable
	// ValuationFailed means no purchase price could be resolved.
	ValuationFailed
)

// Valuation is the Ok | Unavailable | Failed variant used for per-transaction
// results. Callers must branch on Status before using Value.
type Valuation struct {
	Status ValuationStatus
	Value  decimal.Decimal
}

func OkValuation(value decimal.Decimal) Valuation {
	return Valuation{Status: ValuationOk, Value: value}
}

func UnavailableValuation() Valuation {
	return Valuation{Status: ValuationUnavailable}
}

func FailedValuation() Valuation {
	return Valuation{Status: ValuationFailed}
}

// MarshalJSON keeps the wire format the frontend already consumes: a bare
// number, "N/A", or "Error".
func (v Valuation) MarshalJSON() ([]byte, error) {
	switch v.Status {
	case ValuationUnavailable:
		return json.Marshal("N/A")
	case ValuationFailed:
		return json.Marshal("Error")
	}
	return []byte(v.Value.String()), nil
}
