package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dferrante/anchorline/internal/adapters/handler/http/middleware"
	"github.com/dferrante/anchorline/internal/core/services"
)

// DevHandler exposes development-only tooling. Routes are always registered;
// the environment check happens per request.
type DevHandler struct {
	streakSvc   *services.StreakService
	environment string
}

func NewDevHandler(streakSvc *services.StreakService, environment string) *DevHandler {
	return &DevHandler{streakSvc: streakSvc, environment: environment}
}

func (h *DevHandler) RegisterRoutes(router *gin.RouterGroup) {
	dev := router.Group("/dev")
	{
		dev.DELETE("/streaks", h.ResetStreaks)
	}
}

func (h *DevHandler) ResetStreaks(c *gin.Context) {
	if h.environment != "development" {
		c.JSON(http.StatusForbidden, gin.H{"error": "dev endpoints are disabled in this environment"})
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.streakSvc.ResetStreaks(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "streak data cleared"})
}
