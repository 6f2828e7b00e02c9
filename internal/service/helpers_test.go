package service

import (
	"context"
	"sync"
	"time"

	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/repository"
	"github.com/shopspring/decimal"
)

// fakePriceArchive serves canned monthly buckets keyed by the same key the
// real adapter builds, and records every read.
type fakePriceArchive struct {
	mu      sync.Mutex
	buckets map[string]domain.MonthlyPrices
	errs    map[string]error
	calls   []string
}

func newFakePriceArchive() *fakePriceArchive {
	return &fakePriceArchive{
		buckets: map[string]domain.MonthlyPrices{},
		errs:    map[string]error{},
	}
}

func (f *fakePriceArchive) addPrice(asset string, date time.Time, price string) {
	key := repository.MonthlyPricesKey(asset, date.Year(), date.Month())
	if _, ok := f.buckets[key]; !ok {
		f.buckets[key] = domain.MonthlyPrices{}
	}
	f.buckets[key][date.Format("2006-01-02")] = decimal.RequireFromString(price)
}

func (f *fakePriceArchive) failBucket(asset string, year int, month time.Month, err error) {
	f.errs[repository.MonthlyPricesKey(asset, year, month)] = err
}

func (f *fakePriceArchive) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakePriceArchive) GetMonthlyPrices(ctx context.Context, asset string, year int, month time.Month) (domain.MonthlyPrices, error) {
	key := repository.MonthlyPricesKey(asset, year, month)
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if bucket, ok := f.buckets[key]; ok {
		return bucket, nil
	}
	return nil, domain.ErrNotFound
}

// fakeSignalRepository serves canned public snapshots.
type fakeSignalRepository struct {
	snapshots map[string]*domain.SignalSnapshot
	errs      map[string]error
}

func newFakeSignalRepository() *fakeSignalRepository {
	return &fakeSignalRepository{
		snapshots: map[string]*domain.SignalSnapshot{},
		errs:      map[string]error{},
	}
}

func (f *fakeSignalRepository) GetSnapshot(ctx context.Context, asset string) (*domain.SignalSnapshot, error) {
	if err, ok := f.errs[asset]; ok {
		return nil, err
	}
	if snapshot, ok := f.snapshots[asset]; ok {
		return snapshot, nil
	}
	return nil, domain.ErrNotFound
}

// fakePriceSeries returns a fixed dense series regardless of inputs.
type fakePriceSeries struct {
	series domain.DenseSeries
	err    error
}

func (f fakePriceSeries) LoadDense(ctx context.Context, assets []string, start time.Time) (domain.DenseSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
