package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/logger"
	"github.com/kizerek321/gem-portfolio-tracker/internal/util"
	"github.com/shopspring/decimal"
)

type HistoryService interface {
	// GenerateHistory replays the transactions day by day from the earliest
	// transaction date through today and returns the resulting equity
	// curve, one point per calendar day, ascending.
	GenerateHistory(ctx context.Context, transactions []domain.Transaction) ([]domain.HistoryPoint, error)
}

func NewHistoryService(priceSeriesService PriceSeriesService) HistoryService {
	return &historyServiceHandler{
		PriceSeriesService: priceSeriesService,
		now:                time.Now,
	}
}

type historyServiceHandler struct {
	PriceSeriesService PriceSeriesService
	now                func() time.Time
}

// holding is one retained transaction converted to shares at its resolved
// purchase price.
type holding struct {
	tx     domain.Transaction
	shares decimal.Decimal
}

func (h historyServiceHandler) GenerateHistory(ctx context.Context, transactions []domain.Transaction) ([]domain.HistoryPoint, error) {
	if len(transactions) == 0 {
		return []domain.HistoryPoint{}, nil
	}

	sorted := make([]domain.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	start := util.TruncateToDay(sorted[0].Date)
	end := util.TruncateToDay(h.now().UTC())

	series, err := h.PriceSeriesService.LoadDense(ctx, distinctAssets(sorted), start)
	if err != nil {
		return nil, fmt.Errorf("failed to load price series: %w", err)
	}

	holdings := h.resolveHoldings(ctx, sorted, series)

	// replay: consume holdings with a single forward cursor, then value the
	// accumulated position against the dense series, day by day
	owned := map[string]decimal.Decimal{}
	totalInvested := decimal.Zero
	points := []domain.HistoryPoint{}
	cursor := 0

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dayKey := util.DayKey(day)

		for cursor < len(holdings) && util.DayKey(holdings[cursor].tx.Date) == dayKey {
			held := holdings[cursor]
			owned[held.tx.Asset] = owned[held.tx.Asset].Add(held.shares)
			totalInvested = totalInvested.Add(held.tx.Amount)
			cursor++
		}

		portfolioValue := decimal.Zero
		for asset, shares := range owned {
			if !shares.IsPositive() {
				continue
			}
			price, ok := series.Price(asset, dayKey)
			if !ok {
				continue
			}
			portfolioValue = portfolioValue.Add(shares.Mul(price))
		}

		cumulativeProfit := decimal.Zero
		if portfolioValue.IsPositive() {
			cumulativeProfit = portfolioValue.Sub(totalInvested)
		}

		points = append(points, domain.HistoryPoint{
			Date:             dayKey,
			PortfolioValue:   portfolioValue.Round(2),
			TotalInvested:    totalInvested.Round(2),
			CumulativeProfit: cumulativeProfit.Round(2),
		})
	}

	return points, nil
}

// resolveHoldings converts each transaction into shares at the dense-series
// price on its own date. The series is already forward-filled, so an absent
// price means the asset had no data yet; such transactions are dropped from
// the replay.
func (h historyServiceHandler) resolveHoldings(ctx context.Context, sorted []domain.Transaction, series domain.DenseSeries) []holding {
	log := logger.FromContext(ctx)

	holdings := make([]holding, 0, len(sorted))
	for _, tx := range sorted {
		price, ok := series.Price(tx.Asset, util.DayKey(tx.Date))
		if !ok || !price.IsPositive() {
			log.Warnf("dropping transaction %s: no purchase price for %s on %s", tx.ID, tx.Asset, util.DayKey(tx.Date))
			continue
		}
		holdings = append(holdings, holding{
			tx:     tx,
			shares: tx.Amount.Div(price),
		})
	}
	return holdings
}
