package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kizerek321/gem-portfolio-tracker/api"
	"github.com/kizerek321/gem-portfolio-tracker/internal"
	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
	"github.com/kizerek321/gem-portfolio-tracker/internal/repository"
	"github.com/kizerek321/gem-portfolio-tracker/internal/service"
)

func CloseDependencies(handler *api.ApiHandler) {
	if err := handler.Store.Close(); err != nil {
		log.Fatalf("failed to close store connection: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := internal.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	store := redis.NewClient(&redis.Options{
		Addr:     secrets.Store.Addr,
		Password: secrets.Store.Password,
		DB:       secrets.Store.Db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to store at %s: %w", secrets.Store.Addr, err)
	}

	priceArchiveRepository := repository.NewPriceArchiveRepository(store)
	signalRepository := repository.NewSignalRepository(store)

	tradingDayService := service.NewTradingDayService(priceArchiveRepository)
	priceSeriesService := service.NewPriceSeriesService(priceArchiveRepository)

	apiHandler := &api.ApiHandler{
		Store:             store,
		SignalService:     service.NewSignalService(signalRepository, domain.TrackedAssets),
		TradingDayService: tradingDayService,
		PortfolioService:  service.NewPortfolioService(signalRepository, tradingDayService),
		HistoryService:    service.NewHistoryService(priceSeriesService),
		JwtDecodeToken:    secrets.Jwt,
		AllowedOrigins:    secrets.AllowedOrigins,
		Port:              secrets.Port,
	}

	return apiHandler, nil
}
