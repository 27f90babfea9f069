package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dferrante/anchorline/internal/adapters/handler/http/middleware"
	"github.com/dferrante/anchorline/internal/core/services"
	"github.com/dferrante/anchorline/internal/core/streaks"
)

const maxContributionWeeks = 52

type StreakHandler struct {
	svc *services.StreakService
}

func NewStreakHandler(svc *services.StreakService) *StreakHandler {
	return &StreakHandler{svc: svc}
}

func (h *StreakHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/streaks", h.GetSummary)
}

// GetSummary godoc
// @Summary Streaks, consistency and contribution graph
// @Tags streaks
// @Produce json
// @Param weeks query int false "Contribution window in weeks (1-52, default 12)"
// @Success 200 {object} domain.StreakSummary
// @Router /streaks [get]
func (h *StreakHandler) GetSummary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	weeks := streaks.DefaultContributionWeeks
	if weeksStr := c.Query("weeks"); weeksStr != "" {
		parsed, err := strconv.Atoi(weeksStr)
		if err != nil || parsed < 1 || parsed > maxContributionWeeks {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weeks must be an integer between 1 and 52"})
			return
		}
		weeks = parsed
	}

	summary, err := h.svc.Summary(c.Request.Context(), userID, weeks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute streaks"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
