package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/logger"
	"github.com/shopspring/decimal"
)

type GemSignalResponse struct {
	RecommendedAsset   string             `json:"recommended_asset"`
	SignalDate         string             `json:"signal_date"`
	Vt12MReturnPct     float64            `json:"vt_12m_return_pct"`
	CalculationDetails CalculationDetails `json:"calculation_details"`
	Signal             string             `json:"signal"`
	RiskOnAsset        string             `json:"risk_on_asset"`
}

// CalculationDetails fields fall back to "N/A" when the winning snapshot
// omits them, matching what the dashboard already renders.
type CalculationDetails struct {
	CurrentPrice  any `json:"current_price"`
	PastPriceDate any `json:"past_price_date"`
	PastPrice     any `json:"past_price"`
}

func (m ApiHandler) gemSignal(c *gin.Context) {
	signal, err := m.SignalService.BestSignal(c.Request.Context())
	if errors.Is(err, domain.ErrNotFound) {
		returnErrorJsonCode(fmt.Errorf("no signal data found; ensure the data service has run"), c, 404)
		return
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Errorf("failed to read gem signal: %s", err.Error())
		returnErrorJsonCode(fmt.Errorf("could not process GEM signal"), c, 500)
		return
	}

	c.JSON(200, gemSignalResponseFromDomain(signal))
}

func gemSignalResponseFromDomain(signal *domain.GemSignal) GemSignalResponse {
	return GemSignalResponse{
		RecommendedAsset: signal.RecommendedAsset,
		SignalDate:       signal.SignalDate,
		Vt12MReturnPct:   signal.Return12MPct.InexactFloat64(),
		CalculationDetails: CalculationDetails{
			CurrentPrice:  priceDetail(signal.CurrentPrice),
			PastPriceDate: stringDetail(signal.PastPriceDate),
			PastPrice:     priceDetail(signal.PastPrice),
		},
		Signal:      signal.Signal,
		RiskOnAsset: signal.RiskOnAsset,
	}
}

func priceDetail(price *decimal.Decimal) any {
	if price == nil {
		return "N/A"
	}
	return price.InexactFloat64()
}

func stringDetail(s string) any {
	if s == "" {
		return "N/A"
	}
	return s
}
