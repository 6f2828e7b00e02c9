package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
)

// public/{asset} documents are written by the external signal-calculation
// process; this adapter is read-only.
type SignalRepository interface {
	GetSnapshot(ctx context.Context, asset string) (*domain.SignalSnapshot, error)
}

func NewSignalRepository(client *redis.Client) SignalRepository {
	return &signalRepositoryHandler{
		Client: client,
	}
}

type signalRepositoryHandler struct {
	Client *redis.Client
}

func SnapshotKey(asset string) string {
	return "public/" + asset
}

func (h signalRepositoryHandler) GetSnapshot(ctx context.Context, asset string) (*domain.SignalSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	raw, err := h.Client.Get(ctx, SnapshotKey(asset)).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read signal snapshot for %s: %w", asset, err)
	}

	snapshot := domain.SignalSnapshot{}
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse signal snapshot for %s: %w", asset, err)
	}

	return &snapshot, nil
}
