package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dferrante/anchorline/internal/adapters/handler/http/middleware"
	"github.com/dferrante/anchorline/internal/core/domain"
	"github.com/dferrante/anchorline/internal/core/services"
)

type AnchorHandler struct {
	svc *services.AnchorService
}

func NewAnchorHandler(svc *services.AnchorService) *AnchorHandler {
	return &AnchorHandler{svc: svc}
}

type createAnchorRequest struct {
	Name  string `json:"name" binding:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type updateAnchorRequest struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

func (h *AnchorHandler) RegisterRoutes(router *gin.RouterGroup) {
	anchors := router.Group("/anchors")
	{
		anchors.POST("", h.Create)
		anchors.GET("", h.List)
		anchors.PATCH("/:id", h.Update)
		anchors.DELETE("/:id", h.Delete)
	}
}

func (h *AnchorHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createAnchorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	anchor, err := h.svc.Create(c.Request.Context(), services.CreateAnchorInput{
		UserID: userID,
		Name:   req.Name,
		Icon:   req.Icon,
		Color:  req.Color,
	})
	if err != nil {
		h.writeAnchorError(c, err)
		return
	}

	c.JSON(http.StatusCreated, anchor)
}

// List godoc
// @Summary List anchors, seeding defaults on first call
// @Tags anchors
// @Produce json
// @Success 200 {array} domain.Anchor
// @Router /anchors [get]
func (h *AnchorHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	anchors, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, anchors)
}

func (h *AnchorHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateAnchorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	anchor, err := h.svc.Update(c.Request.Context(), services.UpdateAnchorInput{
		ID:     c.Param("id"),
		UserID: userID,
		Name:   req.Name,
		Icon:   req.Icon,
		Color:  req.Color,
	})
	if err != nil {
		h.writeAnchorError(c, err)
		return
	}

	c.JSON(http.StatusOK, anchor)
}

func (h *AnchorHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.writeAnchorError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AnchorHandler) writeAnchorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAnchorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "anchor not found"})
	case errors.Is(err, domain.ErrAnchorNameEmpty),
		errors.Is(err, domain.ErrAnchorNameTooLong),
		errors.Is(err, domain.ErrAnchorInvalidColor):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
