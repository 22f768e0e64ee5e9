package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gridcfg.io/console/internal/api/middleware"
	"gridcfg.io/console/internal/service"
	"gridcfg.io/console/models"
)

// SummaryHandler handles the session-scoped summary screen endpoints.
//
// Every route expects the Session middleware to have bound a session ID.
type SummaryHandler struct {
	service *service.SummaryService
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(service *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// GetSummary handles GET /api/v1/summary
//
// Response:
//
//	{
//	  "clusters": ["alpha", "beta"],
//	  "selected_index": 0,
//	  "cluster": {...},
//	  "has_pojo": true,
//	  "tabs_server": {"activeTab": 0},
//	  "tabs_client": {"activeTab": 0}
//	}
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	state, err := h.service.State(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Select handles PUT /api/v1/summary/selection
//
// Request body: {"name": "beta"}, {"index": 1}, or {} to clear the selection.
//
// Returns:
//   - 200 with the new summary state
//   - 400 if both name and index are given
//   - 404 if the cluster does not exist
func (h *SummaryHandler) Select(c *gin.Context) {
	var req models.SelectRequest
	if err := bindJSON(c, &req, true); err != nil {
		mapErrorToResponse(c, err)
		return
	}

	state, err := h.service.Select(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// SetTab handles PUT /api/v1/summary/tabs/:group
//
// Request body: {"active_tab": 2}
//
// Returns:
//   - 200 with the new summary state
//   - 400 for an unknown group or an unavailable tab
func (h *SummaryHandler) SetTab(c *gin.Context) {
	var req models.TabRequest
	if err := bindJSON(c, &req, false); err != nil {
		mapErrorToResponse(c, err)
		return
	}

	state, err := h.service.SetTab(c.Request.Context(), middleware.GetSessionID(c), c.Param("group"), *req.ActiveTab)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// DownloadBundle handles GET /api/v1/summary/bundle
//
// Builds the bundle of the currently selected cluster.
//
// Returns:
//   - 200 with the zip archive as an attachment
//   - 304 Not Modified if If-None-Match matches the archive
//   - 409 if no cluster is selected
//   - 422 if a generator failed
func (h *SummaryHandler) DownloadBundle(c *gin.Context) {
	result, err := h.service.Export(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	sendBundle(c, result)
}
