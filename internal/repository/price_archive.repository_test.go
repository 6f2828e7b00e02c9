package repository

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_MonthlyPricesKey(t *testing.T) {
	// the populator writes these exact keys; month always two digits
	require.Equal(t, "historicalData/IWDA.L/years/2024/months/01", MonthlyPricesKey("IWDA.L", 2024, time.January))
	require.Equal(t, "historicalData/CBU0.L/years/2023/months/12", MonthlyPricesKey("CBU0.L", 2023, time.December))
}

func Test_priceArchiveRepositoryHandler_GetMonthlyPrices(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("historicalData/IWDA.L/years/2024/months/01").
			SetVal(`{"prices": {"2024-01-02": 100.5, "2024-01-03": 101}}`)

		h := priceArchiveRepositoryHandler{Client: client}
		prices, err := h.GetMonthlyPrices(ctx, "IWDA.L", 2024, time.January)
		require.NoError(t, err)
		require.Len(t, prices, 2)
		require.True(t, prices["2024-01-02"].Equal(decimal.RequireFromString("100.5")))
		require.True(t, prices["2024-01-03"].Equal(decimal.NewFromInt(101)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing bucket maps to ErrNotFound", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("historicalData/IWDA.L/years/2024/months/02").RedisNil()

		h := priceArchiveRepositoryHandler{Client: client}
		_, err := h.GetMonthlyPrices(ctx, "IWDA.L", 2024, time.February)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed document", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("historicalData/IWDA.L/years/2024/months/03").SetVal(`not json`)

		h := priceArchiveRepositoryHandler{Client: client}
		_, err := h.GetMonthlyPrices(ctx, "IWDA.L", 2024, time.March)
		require.Error(t, err)
		require.NotErrorIs(t, err, domain.ErrNotFound)
	})
}
