package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// document keys follow the populator's layout and must not change:
// historicalData/{asset}/years/{YYYY}/months/{MM} -> {"prices": {"YYYY-MM-DD": px}}
const readTimeout = 5 * time.Second

type PriceArchiveRepository interface {
	GetMonthlyPrices(ctx context.Context, asset string, year int, month time.Month) (domain.MonthlyPrices, error)
}

func NewPriceArchiveRepository(client *redis.Client) PriceArchiveRepository {
	return &priceArchiveRepositoryHandler{
		Client: client,
	}
}

type priceArchiveRepositoryHandler struct {
	Client *redis.Client
}

func MonthlyPricesKey(asset string, year int, month time.Month) string {
	return fmt.Sprintf("historicalData/%s/years/%04d/months/%02d", asset, year, int(month))
}

type monthlyPricesDocument struct {
	Prices map[string]decimal.Decimal `json:"prices"`
}

func (h priceArchiveRepositoryHandler) GetMonthlyPrices(ctx context.Context, asset string, year int, month time.Month) (domain.MonthlyPrices, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	raw, err := h.Client.Get(ctx, MonthlyPricesKey(asset, year, month)).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read price bucket for %s %04d-%02d: %w", asset, year, int(month), err)
	}

	doc := monthlyPricesDocument{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse price bucket for %s %04d-%02d: %w", asset, year, int(month), err)
	}

	return domain.MonthlyPrices(doc.Prices), nil
}
