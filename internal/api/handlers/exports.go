package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gridcfg.io/console/internal/service"
	"gridcfg.io/console/models"
)

// ExportHandler handles the export history endpoint.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler creates a new export history handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ListExports handles GET /api/v1/exports
//
// Query Parameters:
//   - limit: Maximum number of records (default 50, max 500)
//
// Response:
//
//	{
//	  "exports": [{"id": 7, "cluster_name": "alpha", "file_name": "alpha-configuration.zip", ...}]
//	}
func (h *ExportHandler) ListExports(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respondError(c, http.StatusBadRequest, "invalid_limit", "Invalid limit parameter")
			return
		}
		limit = v
	}

	records, err := h.exports.History(c.Request.Context(), limit)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ExportHistoryResponse{Exports: records})
}
