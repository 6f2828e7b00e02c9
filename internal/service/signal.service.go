package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/repository"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type SignalService interface {
	// BestSignal picks the tracked asset with the highest precomputed
	// 12-month return. Returns domain.ErrNotFound when no snapshots exist.
	BestSignal(ctx context.Context) (*domain.GemSignal, error)
}

func NewSignalService(signalRepository repository.SignalRepository, assets []string) SignalService {
	return &signalServiceHandler{
		SignalRepository: signalRepository,
		Assets:           assets,
	}
}

type signalServiceHandler struct {
	SignalRepository repository.SignalRepository
	Assets           []string
}

func (h signalServiceHandler) BestSignal(ctx context.Context) (*domain.GemSignal, error) {
	snapshots := []domain.SignalSnapshot{}
	for _, asset := range h.Assets {
		snapshot, err := h.SignalRepository.GetSnapshot(ctx, asset)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read signal snapshots: %w", err)
		}
		snapshots = append(snapshots, *snapshot)
	}

	if len(snapshots) == 0 {
		return nil, domain.ErrNotFound
	}

	best := snapshots[0]
	for _, snapshot := range snapshots[1:] {
		if snapshot.Return12M.GreaterThan(best.Return12M) {
			best = snapshot
		}
	}

	return &domain.GemSignal{
		RecommendedAsset: best.Signal,
		SignalDate:       best.CalculationDate,
		Return12MPct:     best.Return12M.Mul(oneHundred),
		CurrentPrice:     best.CurrentPrice,
		PastPrice:        best.PastPrice,
		PastPriceDate:    best.PastPriceDate,
		Signal:           best.Signal,
		RiskOnAsset:      best.Signal,
	}, nil
}
