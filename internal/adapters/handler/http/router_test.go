package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adapterHTTP "github.com/dferrante/anchorline/internal/adapters/handler/http"
	"github.com/dferrante/anchorline/internal/adapters/handler/http/middleware"
	"github.com/dferrante/anchorline/internal/adapters/repository"
	"github.com/dferrante/anchorline/internal/core/events"
	"github.com/dferrante/anchorline/internal/core/services"
)

// testEnv wires the full handler stack over in-memory repositories. Auth is
// replaced by a header shim so tests exercise handlers, not token parsing.
type testEnv struct {
	router  *gin.Engine
	tasks   *repository.InMemoryTaskRepository
	anchors *repository.InMemoryAnchorRepository
	streaks *repository.InMemoryStreakRepository
}

func newTestEnv(t *testing.T, environment string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	anchorRepo := repository.NewInMemoryAnchorRepository()
	taskRepo := repository.NewInMemoryTaskRepository(anchorRepo)
	streakRepo := repository.NewInMemoryStreakRepository()
	settingsRepo := repository.NewInMemorySettingsRepository()

	logger := zap.NewNop()
	bus := events.NewBus(16, logger)

	taskSvc := services.NewTaskService(taskRepo, anchorRepo, streakRepo, bus, logger)
	anchorSvc := services.NewAnchorService(anchorRepo, logger)
	streakSvc := services.NewStreakService(streakRepo, logger)
	settingsSvc := services.NewSettingsService(settingsRepo, logger)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		id := c.GetHeader("X-User-ID")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(middleware.ContextUserIDKey, id)
		c.Next()
	})

	api := r.Group("/api/v1")
	adapterHTTP.NewTaskHandler(taskSvc).RegisterRoutes(api)
	adapterHTTP.NewAnchorHandler(anchorSvc).RegisterRoutes(api)
	adapterHTTP.NewStreakHandler(streakSvc).RegisterRoutes(api)
	adapterHTTP.NewSettingsHandler(settingsSvc).RegisterRoutes(api)
	adapterHTTP.NewDevHandler(streakSvc, environment).RegisterRoutes(api)

	return &testEnv{
		router:  r,
		tasks:   taskRepo,
		anchors: anchorRepo,
		streaks: streakRepo,
	}
}

func (e *testEnv) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}
