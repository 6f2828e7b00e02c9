package api

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func Test_rateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(newRateLimitMiddleware(1, 2))
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	// burst of 2 allowed, third immediate request rejected
	require.Equal(t, 200, performRequest(router, "GET", "/", nil, nil).Code)
	require.Equal(t, 200, performRequest(router, "GET", "/", nil, nil).Code)
	require.Equal(t, 429, performRequest(router, "GET", "/", nil, nil).Code)
}
