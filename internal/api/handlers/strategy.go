package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xuefei993/renewables/internal/api/models"
	"github.com/xuefei993/renewables/internal/strategy"
)

// StrategyHandler handles strategy-related requests
type StrategyHandler struct{}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

// ListStrategies handles GET /api/v1/strategies
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	recommended := strategy.Recommended()
	out := make([]models.StrategyInfo, 0, len(recommended))
	for _, s := range recommended {
		out = append(out, models.StrategyInfo{Name: s.Name(), Description: s.Description()})
	}
	c.JSON(http.StatusOK, gin.H{"strategies": out})
}

// GetStrategy handles GET /api/v1/strategies/:name
func (h *StrategyHandler) GetStrategy(c *gin.Context) {
	s, err := strategy.ByName(c.Param("name"))
	if err != nil {
		respondError(c, http.StatusNotFound, "STRATEGY_NOT_FOUND", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.StrategyInfo{Name: s.Name(), Description: s.Description()})
}
