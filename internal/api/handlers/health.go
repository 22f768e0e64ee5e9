package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gridcfg.io/console/internal/logging"
	"gridcfg.io/console/models"
)

const readinessTimeout = 2 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db         *sql.DB
	instanceID string
	started    time.Time
}

// NewHealthHandler creates a health handler; uptime counts from this call.
//
// Parameters:
//   - db: Database probed by readiness
//   - instanceID: This server instance's ID
func NewHealthHandler(db *sql.DB, instanceID string) *HealthHandler {
	return &HealthHandler{db: db, instanceID: instanceID, started: time.Now()}
}

// Liveness handles GET /health/live. It answers 200 while the process serves
// HTTP and never touches the database.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", InstanceID: h.instanceID})
}

// Readiness handles GET /health/ready.
//
// The instance is ready when the cluster catalogue can be read within
// readinessTimeout; the response carries the catalogue size and uptime.
// Otherwise it answers 503 so load balancers route around it.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	var clusters int
	if err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clusters`).Scan(&clusters); err != nil {
		logging.FromContext(c.Request.Context()).Warn("readiness probe failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "unhealthy", "Database unavailable")
		return
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:     "ready",
		InstanceID: h.instanceID,
		Database:   "connected",
		Clusters:   clusters,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
	})
}
