package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/logger"
	"github.com/shopspring/decimal"
)

type TransactionPayload struct {
	ID     string          `json:"id"`
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

type EnrichedTransactionResponse struct {
	ID           string           `json:"id"`
	Asset        string           `json:"asset"`
	Amount       float64          `json:"amount"`
	Date         string           `json:"date"`
	CurrentValue domain.Valuation `json:"currentValue"`
	ProfitLoss   domain.Valuation `json:"profitLoss"`
}

func (m ApiHandler) calculatePortfolio(c *gin.Context) {
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

	enriched, err := m.PortfolioService.Valuate(c.Request.Context(), transactions)
	if err != nil {
		// fail closed: the caller gets their transactions back unenriched
		logger.FromContext(c.Request.Context()).Errorf("portfolio valuation failed: %s", err.Error())
		c.JSON(200, requestBody)
		return
	}

	c.JSON(200, enrichedResponseFromDomain(enriched))
}

func transactionsFromPayload(payload []TransactionPayload) ([]domain.Transaction, error) {
	transactions := make([]domain.Transaction, 0, len(payload))
	for _, tx := range payload {
		if tx.Asset == "" {
			return nil, fmt.Errorf("transaction %q is missing 'asset'", tx.ID)
		}
		if !tx.Amount.IsPositive() {
			return nil, fmt.Errorf("transaction %q must have a positive 'amount'", tx.ID)
		}
		date, err := time.Parse("2006-01-02", tx.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %q has an invalid 'date': %w", tx.ID, err)
		}
		transactions = append(transactions, domain.Transaction{
			ID:     tx.ID,
			Asset:  tx.Asset,
			Amount: tx.Amount,
			Date:   date,
		})
	}
	return transactions, nil
}

func enrichedResponseFromDomain(in []domain.EnrichedTransaction) []EnrichedTransactionResponse {
	out := make([]EnrichedTransactionResponse, 0, len(in))
	for _, tx := range in {
		out = append(out, EnrichedTransactionResponse{
			ID:           tx.ID,
			Asset:        tx.Asset,
			Amount:       tx.Amount.InexactFloat64(),
			Date:         tx.Date.Format("2006-01-02"),
			CurrentValue: tx.CurrentValue,
			ProfitLoss:   tx.ProfitLoss,
		})
	}
	return out
}
