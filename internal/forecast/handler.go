package forecast

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultHorizonDays = 7

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Predict proxies the demand forecast to the dashboard. A `days` query
// parameter adjusts the horizon; stale snapshots are flagged so the
// dashboard can badge them.
func (h *Handler) Predict(c *gin.Context) {
	days := defaultHorizonDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	forecast, stale, err := h.service.Latest(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, ErrNoForecast) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no forecast available"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stale": stale, "forecast": json.RawMessage(forecast)})
}
