package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/logger"
	"github.com/kizerek321/gem-portfolio-tracker/internal/repository"
	"github.com/kizerek321/gem-portfolio-tracker/internal/util"
	"github.com/shopspring/decimal"
)

type PortfolioService interface {
	// Valuate computes each transaction's current value and profit/loss
	// against the latest known prices, preserving input order. Per-item
	// failures become sentinel valuations; only failing to read the
	// current-price set at all fails the batch.
	Valuate(ctx context.Context, transactions []domain.Transaction) ([]domain.EnrichedTransaction, error)
}

func NewPortfolioService(signalRepository repository.SignalRepository, tradingDayService TradingDayService) PortfolioService {
	return &portfolioServiceHandler{
		SignalRepository:  signalRepository,
		TradingDayService: tradingDayService,
	}
}

type portfolioServiceHandler struct {
	SignalRepository  repository.SignalRepository
	TradingDayService TradingDayService
}

func (h portfolioServiceHandler) Valuate(ctx context.Context, transactions []domain.Transaction) ([]domain.EnrichedTransaction, error) {
	log := logger.FromContext(ctx)

	currentPrices, err := h.loadCurrentPrices(ctx, distinctAssets(transactions))
	if err != nil {
		return nil, fmt.Errorf("failed to load current prices: %w", err)
	}

	enriched := make([]domain.EnrichedTransaction, 0, len(transactions))
	for _, tx := range transactions {
		currentPrice := currentPrices[tx.Asset]
		if currentPrice == nil {
			enriched = append(enriched, domain.EnrichedTransaction{
				Transaction:  tx,
				CurrentValue: domain.UnavailableValuation(),
				ProfitLoss:   domain.UnavailableValuation(),
			})
			continue
		}

		resolved, err := h.TradingDayService.ResolvePrice(ctx, tx.Asset, tx.Date)
		if err != nil {
			log.Warnf("could not find historical price for %s on or after %s", tx.Asset, util.DayKey(tx.Date))
			enriched = append(enriched, domain.EnrichedTransaction{
				Transaction:  tx,
				CurrentValue: domain.FailedValuation(),
				ProfitLoss:   domain.FailedValuation(),
			})
			continue
		}

		// return-multiple model: the invested amount scales by the price
		// ratio, i.e. amount/purchasePrice shares marked at currentPrice
		currentValue := currentPrice.Div(resolved.Price).Mul(tx.Amount)
		enriched = append(enriched, domain.EnrichedTransaction{
			Transaction:  tx,
			CurrentValue: domain.OkValuation(currentValue),
			ProfitLoss:   domain.OkValuation(currentValue.Sub(tx.Amount)),
		})
	}

	return enriched, nil
}

// loadCurrentPrices reads the latest known price per asset from the public
// snapshots. A missing snapshot or price field maps to nil so the asset's
// transactions get excluded, not mispriced.
func (h portfolioServiceHandler) loadCurrentPrices(ctx context.Context, assets []string) (map[string]*decimal.Decimal, error) {
	log := logger.FromContext(ctx)

	currentPrices := map[string]*decimal.Decimal{}
	for _, asset := range assets {
		snapshot, err := h.SignalRepository.GetSnapshot(ctx, asset)
		if errors.Is(err, domain.ErrNotFound) {
			log.Warnf("no current price for %s, its transactions will be excluded", asset)
			currentPrices[asset] = nil
			continue
		}
		if err != nil {
			return nil, err
		}
		if snapshot.CurrentPrice == nil {
			log.Warnf("snapshot for %s has no current price, its transactions will be excluded", asset)
		}
		currentPrices[asset] = snapshot.CurrentPrice
	}

	return currentPrices, nil
}

func distinctAssets(transactions []domain.Transaction) []string {
	seen := map[string]bool{}
	assets := []string{}
	for _, tx := range transactions {
		if !seen[tx.Asset] {
			seen[tx.Asset] = true
			assets = append(assets, tx.Asset)
		}
	}
	return assets
}
