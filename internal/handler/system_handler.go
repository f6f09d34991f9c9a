package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jhnmartin/join-gradient/internal/database"
	"github.com/jhnmartin/join-gradient/pkg/response"
)

// SystemHandler handles the scheduled-trigger probe and health checks
type SystemHandler struct {
	cronSecret string
	db         *database.PostgresDB // nil when the correlation store is disabled
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(cronSecret string, db *database.PostgresDB) *SystemHandler {
	return &SystemHandler{cronSecret: cronSecret, db: db}
}

// Cron handles GET /api/cron. The scheduler authenticates with a shared
// bearer secret; the response is a static acknowledgment used as a
// liveness probe.
func (h *SystemHandler) Cron(c *gin.Context) {
	expected := "Bearer " + h.cronSecret
	got := c.GetHeader("Authorization")

	if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	c.JSON(http.StatusOK, response.Success(map[string]string{"message": "ok"}))
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	status := map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			status["database"] = "error: " + err.Error()
			c.JSON(http.StatusServiceUnavailable, response.Error(response.ErrCodeInternalError, "Database unreachable"))
			return
		}
		status["database"] = "ok"
	}

	c.JSON(http.StatusOK, response.Success(status))
}
