package service

import (
	"context"
	"errors"
	"time"

	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/logger"
	"github.com/kizerek321/gem-portfolio-tracker/internal/repository"
	"github.com/kizerek321/gem-portfolio-tracker/internal/util"
)

// probeWindowDays bounds the forward search: a transaction dated on a
// weekend or holiday prices at the next session, never a prior one, and
// never more than a week out.
const probeWindowDays = 7

// ErrNoTradingDay means no stored price exists within the probe window.
var ErrNoTradingDay = errors.New("no trading day within probe window")

type TradingDayService interface {
	// ResolvePrice finds the first stored price on or after nominalDate,
	// probing forward one calendar day at a time.
	ResolvePrice(ctx context.Context, asset string, nominalDate time.Time) (*domain.ResolvedPrice, error)
	// IsTradingDay reports whether the archive holds a price for the exact
	// date. Storage faults count as closed.
	IsTradingDay(ctx context.Context, asset string, date time.Time) bool
}

func NewTradingDayService(priceArchiveRepository repository.PriceArchiveRepository) TradingDayService {
	return &tradingDayServiceHandler{
		PriceArchiveRepository: priceArchiveRepository,
	}
}

type tradingDayServiceHandler struct {
	PriceArchiveRepository repository.PriceArchiveRepository
}

func (h tradingDayServiceHandler) ResolvePrice(ctx context.Context, asset string, nominalDate time.Time) (*domain.ResolvedPrice, error) {
	log := logger.FromContext(ctx)

	// successive probes often land in the same bucket, so cache fetched
	// months for the duration of the call
	buckets := map[string]domain.MonthlyPrices{}

	for i := 0; i < probeWindowDays; i++ {
		candidate := nominalDate.AddDate(0, 0, i)
		bucketKey := candidate.Format("2006-01")

		prices, ok := buckets[bucketKey]
		if !ok {
			var err error
			prices, err = h.PriceArchiveRepository.GetMonthlyPrices(ctx, asset, candidate.Year(), candidate.Month())
			if errors.Is(err, domain.ErrNotFound) {
				prices = domain.MonthlyPrices{}
			} else if err != nil {
				// a failed probe is just a miss for that day
				log.Warnf("could not read price bucket for %s on %s: %s", asset, util.DayKey(candidate), err.Error())
				continue
			}
			buckets[bucketKey] = prices
		}

		if price, ok := prices[util.DayKey(candidate)]; ok {
			return &domain.ResolvedPrice{
				Price: price,
				Date:  candidate,
			}, nil
		}
	}

	return nil, ErrNoTradingDay
}

func (h tradingDayServiceHandler) IsTradingDay(ctx context.Context, asset string, date time.Time) bool {
	prices, err := h.PriceArchiveRepository.GetMonthlyPrices(ctx, asset, date.Year(), date.Month())
	if errors.Is(err, domain.ErrNotFound) {
		return false
	}
	if err != nil {
		logger.FromContext(ctx).Warnf("could not check market date for %s on %s: %s", asset, util.DayKey(date), err.Error())
		return false
	}

	_, ok := prices[util.DayKey(date)]
	return ok
}
