package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gridcfg.io/console/models"
	"gridcfg.io/console/pkg/bundle"
)

// ValidationResponse is the result of validating an uploaded bundle.
type ValidationResponse struct {
	Valid bool     `json:"valid"`
	Error string   `json:"error,omitempty"`
	Files []string `json:"files,omitempty"`
	Size  int64    `json:"size"`
}

// sendBundle writes an archive as a download.
//
// Archives are reproducible, so the content hash doubles as the ETag and a
// matching If-None-Match answers 304 Not Modified.
func sendBundle(c *gin.Context, result *bundle.Result) {
	sum := sha256.Sum256(result.Data)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`

	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Header("X-Bundle-Entries", strconv.Itoa(len(result.Files)))
	c.Data(http.StatusOK, result.MIMEType, result.Data)
}

// ValidateBundle handles POST /api/v1/bundles/validate
//
// Checks an uploaded archive the way exported archives are checked: size,
// zip format, required entries, and well-formed XML.
//
// Request body: the zip archive
//
// Response:
//
//	{
//	  "valid": true,
//	  "files": ["Dockerfile", "..."],
//	  "size": 12345
//	}
func ValidateBundle(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, bundle.MaxBundleSize+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "read_error", "Failed to read request body")
		return
	}
	if len(data) > bundle.MaxBundleSize {
		mapErrorToResponse(c, models.ErrPayloadTooLarge)
		return
	}

	result := bundle.Validate(data)
	resp := ValidationResponse{
		Valid: result.Valid,
		Files: result.Files,
		Size:  result.Size,
	}
	if result.Error != nil {
		resp.Error = result.Error.Error()
	}

	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, resp)
}
