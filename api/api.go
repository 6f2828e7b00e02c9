package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/kizerek321/gem-portfolio-tracker/internal/logger"
	"github.com/kizerek321/gem-portfolio-tracker/internal/service"
)

type ApiHandler struct {
	Store             *redis.Client
	SignalService     service.SignalService
	TradingDayService service.TradingDayService
	PortfolioService  service.PortfolioService
	HistoryService    service.HistoryService
	JwtDecodeToken    string
	AllowedOrigins    []string
	Port              int
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(m.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = m.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))
	router.Use(m.logRequestMiddleware)
	router.Use(newRateLimitMiddleware(defaultRequestsPerSecond, defaultBurst))

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "Active", "version": "2.0"})
	})
	router.GET("/api/gem-signal", m.gemSignal)
	router.POST("/api/validate-date", m.validateDate)

	authed := router.Group("/api", m.authMiddleware)
	authed.POST("/calculate-portfolio", m.calculatePortfolio)
	authed.POST("/portfolio-history", m.portfolioHistory)

	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Warnf("request failed with %d: %s", code, err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// logRequestMiddleware tags every request with an id, threads a
// request-scoped logger through the context, and logs the outcome.
func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := uuid.New().String()
	log := logger.FromContext(ctx.Request.Context()).With(
		"requestID", requestID,
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"ip", ctx.ClientIP(),
	)
	ctx.Set("requestID", requestID)
	ctx.Request = ctx.Request.WithContext(logger.ToContext(ctx.Request.Context(), log))

	start := time.Now().UTC()
	ctx.Next()

	log.Infow("request complete",
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}
