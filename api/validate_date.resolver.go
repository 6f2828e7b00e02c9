package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

type ValidateDateRequest struct {
	Asset string `json:"asset"`
	Date  string `json:"date"`
}

type ValidateDateResponse struct {
	IsValid bool `json:"isValid"`
}

// validateDate reports whether the market for an asset was open on a date,
// i.e. whether the archive holds a price for exactly that day.
func (m ApiHandler) validateDate(c *gin.Context) {
	var requestBody ValidateDateRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if requestBody.Asset == "" || requestBody.Date == "" {
		returnErrorJsonCode(fmt.Errorf("missing 'asset' or 'date' in payload"), c, 400)
		return
	}

	date, err := time.Parse("2006-01-02", requestBody.Date)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid 'date': %w", err), c, 400)
		return
	}

	c.JSON(200, ValidateDateResponse{
		IsValid: m.TradingDayService.IsTradingDay(c.Request.Context(), requestBody.Asset, date),
	})
}
