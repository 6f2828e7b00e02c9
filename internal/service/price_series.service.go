package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/repository"
	"github.com/kizerek321/gem-portfolio-tracker/internal/util"
	"github.com/shopspring/decimal"
)

type PriceSeriesService interface {
	// LoadDense bulk-loads every stored price for the given assets from
	// start through today, then forward-fills non-trading days. Days before
	// an asset's first stored price stay absent.
	LoadDense(ctx context.Context, assets []string, start time.Time) (domain.DenseSeries, error)
}

func NewPriceSeriesService(priceArchiveRepository repository.PriceArchiveRepository) PriceSeriesService {
	return &priceSeriesServiceHandler{
		PriceArchiveRepository: priceArchiveRepository,
		now:                    time.Now,
	}
}

type priceSeriesServiceHandler struct {
	PriceArchiveRepository repository.PriceArchiveRepository
	now                    func() time.Time
}

func (h priceSeriesServiceHandler) LoadDense(ctx context.Context, assets []string, start time.Time) (domain.DenseSeries, error) {
	start = util.TruncateToDay(start)
	end := util.TruncateToDay(h.now().UTC())

	series := domain.DenseSeries{}
	if start.After(end) {
		return series, nil
	}

	// per-asset loads are independent reads; run them together, but the
	// fill below must not start until all of them are done
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	errCh := make(chan error, len(assets))

	for _, asset := range assets {
		wg.Add(1)
		go func(asset string) {
			defer wg.Done()
			sparse, err := h.loadSparse(ctx, asset, start, end)
			if err != nil {
				errCh <- fmt.Errorf("failed to load prices for %s: %w", asset, err)
				return
			}
			mu.Lock()
			series[asset] = sparse
			mu.Unlock()
		}(asset)
	}
	wg.Wait()
	close(errCh)

	// the history replay is useless on partial data, so the first failed
	// asset load fails the whole call
	if err := <-errCh; err != nil {
		return nil, err
	}

	for _, prices := range series {
		fillForward(prices, start, end)
	}

	return series, nil
}

// loadSparse fetches each distinct monthly bucket the range touches, once,
// and keeps only the trading-day prices inside [start, end].
func (h priceSeriesServiceHandler) loadSparse(ctx context.Context, asset string, start, end time.Time) (map[string]decimal.Decimal, error) {
	startKey := util.DayKey(start)
	endKey := util.DayKey(end)

	prices := map[string]decimal.Decimal{}
	firstOfMonth := util.NewDate(start.Year(), int(start.Month()), 1)
	for cursor := firstOfMonth; !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
		bucket, err := h.PriceArchiveRepository.GetMonthlyPrices(ctx, asset, cursor.Year(), cursor.Month())
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		for day, price := range bucket {
			// date-string keys compare correctly as strings
			if day >= startKey && day <= endKey {
				prices[day] = price
			}
		}
	}

	return prices, nil
}

func fillForward(prices map[string]decimal.Decimal, start, end time.Time) {
	var last *decimal.Decimal
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if price, ok := prices[util.DayKey(day)]; ok {
			p := price
			last = &p
			continue
		}
		if last != nil {
			prices[util.DayKey(day)] = *last
		}
	}
}
