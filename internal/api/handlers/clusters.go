package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"gridcfg.io/console/internal/api/middleware"
	"gridcfg.io/console/internal/service"
	"gridcfg.io/console/models"
)

// ClusterHandler handles cluster catalogue endpoints.
type ClusterHandler struct {
	clusters *service.ClusterService
	exports  *service.ExportService
}

// NewClusterHandler creates a new cluster handler.
//
// Parameters:
//   - clusters: Cluster catalogue service
//   - exports: Export service for direct bundle downloads
//
// Returns:
//   - Configured ClusterHandler
func NewClusterHandler(clusters *service.ClusterService, exports *service.ExportService) *ClusterHandler {
	return &ClusterHandler{
		clusters: clusters,
		exports:  exports,
	}
}

// ListClusters handles GET /api/v1/clusters
//
// Response:
//
//	{
//	  "clusters": [{"name": "prod-grid", "discovery": {...}, "caches": [...]}]
//	}
func (h *ClusterHandler) ListClusters(c *gin.Context) {
	clusters, err := h.clusters.List(c.Request.Context())
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ClusterListResponse{Clusters: clusters})
}

// GetCluster handles GET /api/v1/clusters/:name
func (h *ClusterHandler) GetCluster(c *gin.Context) {
	cluster, err := h.clusters.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, cluster)
}

// ImportClusters handles POST /api/v1/clusters/import
//
// Request body: a YAML or JSON catalogue document ({"clusters": [...]}).
// Either every cluster is stored or none is.
//
// Response:
//
//	{
//	  "created": 2,
//	  "updated": 1
//	}
func (h *ClusterHandler) ImportClusters(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBodySize)

	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			mapErrorToResponse(c, models.ErrPayloadTooLarge)
			return
		}
		respondError(c, http.StatusBadRequest, "read_error", "Failed to read request body")
		return
	}

	clusters, err := service.ParseCatalogue(bytes.NewReader(data))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	result, err := h.clusters.Import(c.Request.Context(), clusters)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteCluster handles DELETE /api/v1/clusters/:name
func (h *ClusterHandler) DeleteCluster(c *gin.Context) {
	if err := h.clusters.Delete(c.Request.Context(), c.Param("name")); err != nil {
		mapErrorToResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportCluster handles POST /api/v1/clusters/:name/bundle
//
// Builds the bundle of a named cluster without touching the summary
// selection. An optional JSON body ({"docker": "...", "metadatas": [...]})
// replaces the derived Dockerfile and POJO classes.
//
// Returns:
//   - 200 with the zip archive as an attachment
//   - 404 if the cluster does not exist
//   - 422 if a generator failed
func (h *ClusterHandler) ExportCluster(c *gin.Context) {
	var payload models.ExportPayload
	if err := bindJSON(c, &payload, true); err != nil {
		mapErrorToResponse(c, err)
		return
	}

	ctx := c.Request.Context()
	cluster, err := h.clusters.Get(ctx, c.Param("name"))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	var override *models.ExportPayload
	if payload.Docker != "" || len(payload.Metadatas) > 0 {
		override = &payload
	}

	result, err := h.exports.Export(ctx, middleware.GetSessionID(c), cluster, override)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}

	sendBundle(c, result)
}
