package api

import (
	"bytes"
	"context"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kizerek321/gem-portfolio-tracker/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSignalService struct {
	signal *domain.GemSignal
	err    error
}

func (f fakeSignalService) BestSignal(ctx context.Context) (*domain.GemSignal, error) {
	return f.signal, f.err
}

type fakeTradingDayService struct {
	resolved    *domain.ResolvedPrice
	resolveErr  error
	tradingDays map[string]bool
}

func (f fakeTradingDayService) ResolvePrice(ctx context.Context, asset string, nominalDate time.Time) (*domain.ResolvedPrice, error) {
	return f.resolved, f.resolveErr
}

func (f fakeTradingDayService) IsTradingDay(ctx context.Context, asset string, date time.Time) bool {
	return f.tradingDays[asset+"|"+date.Format("2006-01-02")]
}

type fakePortfolioService struct {
	enriched []domain.EnrichedTransaction
	err      error
}

func (f fakePortfolioService) Valuate(ctx context.Context, transactions []domain.Transaction) ([]domain.EnrichedTransaction, error) {
	return f.enriched, f.err
}

type fakeHistoryService struct {
	points []domain.HistoryPoint
	err    error
}

func (f fakeHistoryService) GenerateHistory(ctx context.Context, transactions []domain.Transaction) ([]domain.HistoryPoint, error) {
	return f.points, f.err
}

func newTestRouter(m ApiHandler) *gin.Engine {
	router := gin.New()
	router.GET("/api/gem-signal", m.gemSignal)
	router.POST("/api/validate-date", m.validateDate)

	authed := router.Group("/api", m.authMiddleware)
	authed.POST("/calculate-portfolio", m.calculatePortfolio)
	authed.POST("/portfolio-history", m.portfolioHistory)

	return router
}

func performRequest(router *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
