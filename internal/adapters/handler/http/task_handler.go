package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dferrante/anchorline/internal/adapters/handler/http/middleware"
	"github.com/dferrante/anchorline/internal/core/dateutil"
	"github.com/dferrante/anchorline/internal/core/domain"
	"github.com/dferrante/anchorline/internal/core/services"
)

type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type createTaskRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Priority     int      `json:"priority"`
	DueDate      *string  `json:"dueDate"`
	DueTime      *string  `json:"dueTime"`
	TimeEstimate *int     `json:"timeEstimate"`
	AnchorIDs    []string `json:"anchorIds"`
}

type updateTaskRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"`
	Priority       *int     `json:"priority"`
	DueDate        *string  `json:"dueDate"`
	DueTime        *string  `json:"dueTime"`
	TimeEstimate   *int     `json:"timeEstimate"`
	ScheduledStart *string  `json:"scheduledStart"`
	ScheduledEnd   *string  `json:"scheduledEnd"`
	IsFixed        *bool    `json:"isFixed"`
	AnchorIDs      []string `json:"anchorIds"`
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks")
	{
		tasks.POST("", h.Create)
		tasks.GET("", h.List)
		tasks.GET("/:id", h.Get)
		tasks.PATCH("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
	}
	router.GET("/schedule", h.Schedule)
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Success 201 {object} domain.Task
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateTaskInput{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		DueTime:      req.DueTime,
		TimeEstimate: req.TimeEstimate,
		AnchorIDs:    req.AnchorIDs,
	}

	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate format, expected YYYY-MM-DD"})
			return
		}
		input.DueDate = &due
	}

	task, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// List godoc
// @Summary List the user's tasks
// @Tags tasks
// @Produce json
// @Success 200 {array} domain.Task
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	tasks, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	task, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Update applies a partial update. An absent key leaves the field alone; an
// explicit null clears it where the field is clearable.
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var rawFields map[string]json.RawMessage
	if err := json.Unmarshal(body, &rawFields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	explicitNull := func(field string) bool {
		raw, present := rawFields[field]
		return present && string(raw) == "null"
	}

	input := services.UpdateTaskInput{
		ID:             c.Param("id"),
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		DueTime:        req.DueTime,
		ClearDueTime:   explicitNull("dueTime"),
		TimeEstimate:   req.TimeEstimate,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		ClearSchedule:  explicitNull("scheduledStart") || explicitNull("scheduledEnd"),
		IsFixed:        req.IsFixed,
		ClearDueDate:   explicitNull("dueDate"),
	}

	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate format, expected YYYY-MM-DD"})
			return
		}
		input.DueDate = &due
	}

	if _, present := rawFields["anchorIds"]; present {
		if req.AnchorIDs == nil {
			req.AnchorIDs = []string{}
		}
		input.AnchorIDs = req.AnchorIDs
	}

	task, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.writeTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Schedule godoc
// @Summary Daily timeline, split into scheduled and unscheduled tasks
// @Tags tasks
// @Produce json
// @Param date query string false "UTC day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]interface{}
// @Router /schedule [get]
func (h *TaskHandler) Schedule(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	day := dateutil.TodayUTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := parseDate(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	tasks, err := h.svc.ListForDay(c.Request.Context(), userID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// Tasks with a complete time block land on the timeline; the rest go to
	// the unscheduled list.
	scheduled := []*domain.Task{}
	unscheduled := []*domain.Task{}
	for _, task := range tasks {
		if task.ScheduledStart != nil && task.ScheduledEnd != nil {
			scheduled = append(scheduled, task)
		} else {
			unscheduled = append(unscheduled, task)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":        dateutil.DayKey(day),
		"scheduled":   scheduled,
		"unscheduled": unscheduled,
	})
}

func (h *TaskHandler) writeTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, domain.ErrAnchorNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown anchor"})
	case errors.Is(err, domain.ErrTaskTitleEmpty),
		errors.Is(err, domain.ErrTaskTitleTooLong),
		errors.Is(err, domain.ErrTaskDescTooLong),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTimeOfDay),
		errors.Is(err, domain.ErrInvalidTimeBlock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
