package domain

import "github.com/shopspring/decimal"

// TrackedAssets is the fixed universe the GEM strategy rotates across.
var TrackedAssets = []string{"CBU0.L", "CNDX.L", "EIMI.L", "IB01.L", "IWDA.L", "SMH.L"}

// SignalSnapshot is one public/{asset} document, written by the external
// signal-calculation process. Price fields are pointers because older
// documents may omit them.
type SignalSnapshot struct {
	Signal          string           `json:"signal"`
	CalculationDate string           `json:"calculationDate"`
	Return12M       decimal.Decimal  `json:"return_12m"`
	CurrentPrice    *decimal.Decimal `json:"current_price"`
	PastPrice       *decimal.Decimal `json:"past_price"`
	PastPriceDate   string           `json:"past_price_date"`
}

// GemSignal is the winning snapshot reshaped for the signal endpoint.
type GemSignal struct {
	RecommendedAsset string
	SignalDate       string
	Return12MPct     decimal.Decimal
	CurrentPrice     *decimal.Decimal
	PastPrice        *decimal.Decimal
	PastPriceDate    string
	Signal           string
	RiskOnAsset      string
}
