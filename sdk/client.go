package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"gridcfg.io/console/models"
)

// Client is the main SDK client for interacting with the gridcfg console.
// It fails over between console instances and carries the summary session
// across requests.
type Client struct {
	// BaseURLs is the list of console URLs.
	BaseURLs []string

	// HTTPClient is the HTTP client used for requests.
	HTTPClient *http.Client

	// RetryAttempts is the number of times to retry failed requests.
	RetryAttempts int

	// RetryWaitMin is the minimum wait time between retries.
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum wait time between retries.
	RetryWaitMax time.Duration

	// readyURL is the cached URL of the last instance that answered (protected by mu).
	readyURL string

	// sessionID is the summary session (protected by mu).
	sessionID string

	// mu protects concurrent access to readyURL and sessionID.
	mu sync.RWMutex
}

// NewClient creates a new SDK client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	// Validate and set defaults
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		BaseURLs:      config.BaseURLs,
		HTTPClient:    config.HTTPClient,
		RetryAttempts: config.RetryAttempts,
		RetryWaitMin:  config.RetryWaitMin,
		RetryWaitMax:  config.RetryWaitMax,
		sessionID:     config.SessionID,
	}

	return client, nil
}

// DiscoverReady probes every instance's readiness endpoint and caches the
// first ready one. Returns ErrNoReadyInstance if none is ready.
func (c *Client) DiscoverReady(ctx context.Context) error {
	for _, baseURL := range c.BaseURLs {
		if c.probeReady(ctx, baseURL) {
			c.setReadyURL(baseURL)
			return nil
		}
	}

	return ErrNoReadyInstance
}

func (c *Client) probeReady(ctx context.Context, baseURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health/ready", nil)
	if err != nil {
		return false
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer drainAndCloseBody(resp)

	return resp.StatusCode == http.StatusOK
}

// getReadyURL returns the cached instance URL, or empty string if none is known.
func (c *Client) getReadyURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.readyURL
}

func (c *Client) setReadyURL(baseURL string) {
	c.mu.Lock()
	c.readyURL = baseURL
	c.mu.Unlock()
}

// clearReadyCache forgets the cached instance after it failed.
func (c *Client) clearReadyCache() {
	c.setReadyURL("")
}

// doRequest performs an HTTP request with automatic failover.
// The cached instance is tried first; the instance that answers becomes the
// new cached one. A 429 answer is returned as ErrRateLimited.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, contentType string, header http.Header) (*http.Response, error) {
	urls := c.buildURLList()

	if len(urls) == 0 {
		return nil, ErrNoBaseURLs
	}

	var lastErr error

	for _, baseURL := range urls {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}

		for key, values := range header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}
		c.addSessionHeader(req)

		// Perform request with retry logic
		resp, err := c.doRequestWithRetry(ctx, req)
		if err != nil {
			lastErr = err
			if baseURL == c.getReadyURL() {
				c.clearReadyCache()
			}
			continue
		}

		c.setReadyURL(baseURL)
		c.captureSession(resp)

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			drainAndCloseBody(resp)
			if retryAfter != "" {
				return nil, fmt.Errorf("%w: retry after %ss", ErrRateLimited, retryAfter)
			}
			return nil, ErrRateLimited
		}

		return resp, nil
	}

	// All instances failed
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrAllInstancesFailed, lastErr)
	}

	return nil, ErrAllInstancesFailed
}

// buildURLList builds a prioritized list of URLs to try for a request.
// A cached instance is first in the list.
func (c *Client) buildURLList() []string {
	readyURL := c.getReadyURL()
	if readyURL == "" {
		return c.BaseURLs
	}

	urls := []string{readyURL}
	for _, u := range c.BaseURLs {
		if u != readyURL {
			urls = append(urls, u)
		}
	}
	return urls
}

// parseJSONResponse parses a JSON response body into the provided destination.
func (c *Client) parseJSONResponse(resp *http.Response, dest interface{}) error {
	defer drainAndCloseBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}

// parseErrorResponse decodes a non-2xx response into an *APIError.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var body apiError
	// A body that is not an error envelope still yields the status.
	_ = c.parseJSONResponse(resp, &body)

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       body.Error,
		Message:    body.Message,
		RequestID:  body.RequestID,
	}
}

// doJSONRequest is a convenience method that performs a request with JSON body and parses the JSON response.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var body []byte
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = jsonData
	}

	resp, err := c.doRequest(ctx, method, path, body, "application/json", nil)
	if err != nil {
		return err
	}

	// Check for success status codes
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.parseErrorResponse(resp)
	}

	// Parse response if a destination was provided
	if respBody != nil && resp.StatusCode != http.StatusNoContent {
		return c.parseJSONResponse(resp, respBody)
	}

	// No response body expected, just close
	drainAndCloseBody(resp)
	return nil
}

// ============================================================================
// Catalogue Methods
// ============================================================================

// ListClusters retrieves the cluster catalogue ordered by name.
//
// Parameters:
//   - ctx: Request context for cancellation and timeouts
//
// Returns:
//   - []Cluster: All known clusters
//   - error: ErrRateLimited if rate limited, or other errors for network issues
func (c *Client) ListClusters(ctx context.Context) ([]Cluster, error) {
	var response models.ClusterListResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/v1/clusters", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	return response.Clusters, nil
}

// GetCluster retrieves a single cluster by name.
//
// Returns:
//   - *Cluster: The cluster definition
//   - error: ErrNotFound if the cluster does not exist
func (c *Client) GetCluster(ctx context.Context, name string) (*Cluster, error) {
	var cluster Cluster
	if err := c.doJSONRequest(ctx, http.MethodGet, clusterPath(name), nil, &cluster); err != nil {
		return nil, fmt.Errorf("failed to get cluster: %w", err)
	}

	return &cluster, nil
}

// ImportCatalogue uploads a YAML or JSON catalogue document.
// Either every cluster of the document is stored or none is.
//
// Parameters:
//   - ctx: Request context for cancellation and timeouts
//   - document: The catalogue ({"clusters": [...]})
//
// Returns:
//   - *ImportResult: Number of created and updated clusters
//   - error: ErrBadRequest if the document or a cluster is invalid,
//     ErrConflict if a name repeats, ErrPayloadTooLarge if the document is too big
func (c *Client) ImportCatalogue(ctx context.Context, document []byte) (*ImportResult, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/clusters/import", document, "application/yaml", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to import catalogue: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to import catalogue: %w", c.parseErrorResponse(resp))
	}

	var result ImportResult
	if err := c.parseJSONResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to import catalogue: %w", err)
	}

	return &result, nil
}

// DeleteCluster removes a cluster from the catalogue.
//
// Returns:
//   - error: ErrNotFound if the cluster does not exist
func (c *Client) DeleteCluster(ctx context.Context, name string) error {
	if err := c.doJSONRequest(ctx, http.MethodDelete, clusterPath(name), nil, nil); err != nil {
		return fmt.Errorf("failed to delete cluster: %w", err)
	}

	return nil
}

// ExportCluster downloads the bundle of a named cluster without touching the
// summary selection. A non-nil payload replaces the derived Dockerfile and
// POJO classes.
//
// Returns:
//   - *Bundle: The archive and its file name
//   - error: ErrNotFound if the cluster does not exist, ErrGenerationFailed
//     if the server could not render it
func (c *Client) ExportCluster(ctx context.Context, name string, payload *ExportPayload) (*Bundle, error) {
	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = data
	}

	resp, err := c.doRequest(ctx, http.MethodPost, clusterPath(name)+"/bundle", body, "application/json", acceptZip(""))
	if err != nil {
		return nil, fmt.Errorf("failed to export cluster: %w", err)
	}

	bundle, err := c.readBundle(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to export cluster: %w", err)
	}

	return bundle, nil
}

// ============================================================================
// Summary Methods
// ============================================================================

// Summary retrieves the selection and tab state of the client's session.
// The first call obtains a session from the server.
func (c *Client) Summary(ctx context.Context) (*SummaryState, error) {
	var state SummaryState
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/v1/summary", nil, &state); err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	return &state, nil
}

// SelectName selects the cluster with the given name.
//
// Returns:
//   - *SummaryState: The new state
//   - error: ErrNotFound if the cluster does not exist
func (c *Client) SelectName(ctx context.Context, name string) (*SummaryState, error) {
	return c.selectCluster(ctx, models.SelectRequest{Name: name})
}

// SelectIndex selects the cluster at the given position of the catalogue.
//
// Returns:
//   - *SummaryState: The new state
//   - error: ErrNotFound if the index is out of range
func (c *Client) SelectIndex(ctx context.Context, index int) (*SummaryState, error) {
	return c.selectCluster(ctx, models.SelectRequest{Index: &index})
}

// ClearSelection deselects the current cluster.
func (c *Client) ClearSelection(ctx context.Context) (*SummaryState, error) {
	return c.selectCluster(ctx, models.SelectRequest{})
}

func (c *Client) selectCluster(ctx context.Context, req models.SelectRequest) (*SummaryState, error) {
	var state SummaryState
	if err := c.doJSONRequest(ctx, http.MethodPut, "/api/v1/summary/selection", req, &state); err != nil {
		return nil, fmt.Errorf("failed to change selection: %w", err)
	}

	return &state, nil
}

// SetTab activates a tab of a tab group.
//
// Parameters:
//   - ctx: Request context for cancellation and timeouts
//   - group: TabGroupServer or TabGroupClient
//   - index: Zero-based tab index
//
// Returns:
//   - *SummaryState: The new state
//   - error: ErrBadRequest for an unknown group or an unavailable tab
func (c *Client) SetTab(ctx context.Context, group string, index int) (*SummaryState, error) {
	path := "/api/v1/summary/tabs/" + url.PathEscape(group)

	var state SummaryState
	if err := c.doJSONRequest(ctx, http.MethodPut, path, models.TabRequest{ActiveTab: &index}, &state); err != nil {
		return nil, fmt.Errorf("failed to set tab: %w", err)
	}

	return &state, nil
}

// DownloadBundle downloads the bundle of the session's selected cluster.
//
// Returns:
//   - *Bundle: The archive and its file name
//   - error: ErrNoSelection if nothing is selected, ErrGenerationFailed if
//     the server could not render the archive
func (c *Client) DownloadBundle(ctx context.Context) (*Bundle, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/summary/bundle", nil, "", acceptZip(""))
	if err != nil {
		return nil, fmt.Errorf("failed to download bundle: %w", err)
	}

	bundle, err := c.readBundle(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to download bundle: %w", err)
	}

	return bundle, nil
}

// DownloadBundleIfChanged downloads the selected cluster's bundle unless its
// ETag still matches etag.
//
// Returns:
//   - *Bundle: The archive, or nil if it is unchanged
//   - error: As DownloadBundle
func (c *Client) DownloadBundleIfChanged(ctx context.Context, etag string) (*Bundle, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/summary/bundle", nil, "", acceptZip(etag))
	if err != nil {
		return nil, fmt.Errorf("failed to download bundle: %w", err)
	}

	if resp.StatusCode == http.StatusNotModified {
		drainAndCloseBody(resp)
		return nil, nil
	}

	bundle, err := c.readBundle(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to download bundle: %w", err)
	}

	return bundle, nil
}

// ============================================================================
// Export and Bundle Methods
// ============================================================================

// ExportHistory retrieves the most recent exports, newest first.
// A limit of zero uses the server default.
func (c *Client) ExportHistory(ctx context.Context, limit int) ([]ExportRecord, error) {
	path := "/api/v1/exports"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var response models.ExportHistoryResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	return response.Exports, nil
}

// ValidateBundle asks the server to check an archive.
// An invalid archive is not an error; inspect ValidationResult.Valid.
func (c *Client) ValidateBundle(ctx context.Context, data []byte) (*ValidationResult, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/bundles/validate", data, "application/zip", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to validate bundle: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnprocessableEntity {
		return nil, fmt.Errorf("failed to validate bundle: %w", c.parseErrorResponse(resp))
	}

	var result ValidationResult
	if err := c.parseJSONResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to validate bundle: %w", err)
	}

	return &result, nil
}

// Ready reports the readiness of the instance that answers first.
func (c *Client) Ready(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health/ready", nil, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check readiness: %w", err)
	}

	var status HealthStatus
	if err := c.parseJSONResponse(resp, &status); err != nil {
		return nil, fmt.Errorf("failed to check readiness: %w", err)
	}

	return &status, nil
}

// readBundle turns a download response into a Bundle.
func (c *Client) readBundle(resp *http.Response) (*Bundle, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}
	defer drainAndCloseBody(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}

	return &Bundle{
		FileName: attachmentName(resp.Header.Get("Content-Disposition")),
		ETag:     resp.Header.Get("ETag"),
		Data:     data,
	}, nil
}

func attachmentName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func acceptZip(etag string) http.Header {
	header := http.Header{}
	header.Set("Accept", "application/zip")
	if etag != "" {
		header.Set("If-None-Match", etag)
	}
	return header
}

func clusterPath(name string) string {
	return "/api/v1/clusters/" + url.PathEscape(name)
}
