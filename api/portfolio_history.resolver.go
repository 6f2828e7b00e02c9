package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/logger"
)

type HistoryPointResponse struct {
	Date             string  `json:"date"`
	PortfolioValue   float64 `json:"portfolioValue"`
	TotalInvested    float64 `json:"totalInvested"`
	CumulativeProfit float64 `json:"cumulativeProfit"`
}

func (m ApiHandler) portfolioHistory(c *gin.Context) {
	var requestBody []TransactionPayload
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	transactions, err := transactionsFromPayload(requestBody)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	points, err := m.HistoryService.GenerateHistory(c.Request.Context(), transactions)
	if err != nil {
		logger.FromContext(c.Request.Context()).Errorf("portfolio history failed: %s", err.Error())
		returnErrorJsonCode(fmt.Errorf("could not generate portfolio history"), c, 500)
		return
	}

	c.JSON(200, historyResponseFromDomain(points))
}

func historyResponseFromDomain(in []domain.HistoryPoint) []HistoryPointResponse {
	out := make([]HistoryPointResponse, 0, len(in))
	for _, point := range in {
		out = append(out, HistoryPointResponse{
			Date:             point.Date,
			PortfolioValue:   point.PortfolioValue.InexactFloat64(),
			TotalInvested:    point.TotalInvested.InexactFloat64(),
			CumulativeProfit: point.CumulativeProfit.InexactFloat64(),
		})
	}
	return out
}
