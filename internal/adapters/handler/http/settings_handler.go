package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dferrante/anchorline/internal/adapters/handler/http/middleware"
	"github.com/dferrante/anchorline/internal/core/domain"
	"github.com/dferrante/anchorline/internal/core/services"
)

type SettingsHandler struct {
	svc *services.SettingsService
}

func NewSettingsHandler(svc *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

type updateSettingsRequest struct {
	WeeklyGoal             *int    `json:"weeklyGoal"`
	Theme                  *string `json:"theme"`
	NotificationsEnabled   *bool   `json:"notificationsEnabled"`
	Timezone               *string `json:"timezone"`
	HasCompletedOnboarding *bool   `json:"hasCompletedOnboarding"`
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings", h.Get)
	router.PATCH("/settings", h.Update)
}

// Get returns the user's settings, creating defaults on first read.
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	settings, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), services.UpdateSettingsInput{
		UserID:                 userID,
		WeeklyGoal:             req.WeeklyGoal,
		Theme:                  req.Theme,
		NotificationsEnabled:   req.NotificationsEnabled,
		Timezone:               req.Timezone,
		HasCompletedOnboarding: req.HasCompletedOnboarding,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWeeklyGoal) || errors.Is(err, domain.ErrInvalidTheme) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, settings)
}
