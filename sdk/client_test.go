package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gridcfg.io/console/models"
)

func newTestClient(t *testing.T, baseURLs ...string) *Client {
	t.Helper()

	client, err := NewClient(ClientConfig{
		BaseURLs:      baseURLs,
		RetryAttempts: 1,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: code, Message: message})
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
	}{
		{
			name: "valid config",
			config: ClientConfig{
				BaseURLs: []string{"https://console1.example.com"},
			},
			wantErr: false,
		},
		{
			name:    "invalid config - missing base URL",
			config:  ClientConfig{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewClient() expected error but got nil")
				}
			} else {
				if err != nil {
					t.Errorf("NewClient() unexpected error = %v", err)
				}
				if client == nil {
					t.Error("NewClient() returned nil client")
				}
			}
		})
	}
}

func TestNewClient_SessionFromConfig(t *testing.T) {
	client, err := NewClient(ClientConfig{
		BaseURLs:  []string{"http://localhost:8080"},
		SessionID: "resume-me",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if got := client.Session(); got != "resume-me" {
		t.Errorf("Session() = %q, want %q", got, "resume-me")
	}
}

func TestClient_DiscoverReady(t *testing.T) {
	readyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health/ready" {
			writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ready"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer readyServer.Close()

	notReadyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer notReadyServer.Close()

	tests := []struct {
		name     string
		baseURLs []string
		wantURL  string
		wantErr  bool
	}{
		{
			name:     "ready instance first",
			baseURLs: []string{readyServer.URL, notReadyServer.URL},
			wantURL:  readyServer.URL,
		},
		{
			name:     "ready instance second",
			baseURLs: []string{notReadyServer.URL, readyServer.URL},
			wantURL:  readyServer.URL,
		},
		{
			name:     "no ready instance",
			baseURLs: []string{notReadyServer.URL},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.baseURLs...)

			err := client.DiscoverReady(context.Background())

			if tt.wantErr {
				if !errors.Is(err, ErrNoReadyInstance) {
					t.Errorf("DiscoverReady() error = %v, want ErrNoReadyInstance", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DiscoverReady() unexpected error = %v", err)
			}
			if got := client.getReadyURL(); got != tt.wantURL {
				t.Errorf("getReadyURL() = %q, want %q", got, tt.wantURL)
			}
		})
	}
}

func TestClient_BuildURLList(t *testing.T) {
	client := newTestClient(t, "http://a", "http://b", "http://c")

	got := client.buildURLList()
	if strings.Join(got, ",") != "http://a,http://b,http://c" {
		t.Errorf("buildURLList() = %v, want configured order", got)
	}

	client.setReadyURL("http://b")
	got = client.buildURLList()
	if strings.Join(got, ",") != "http://b,http://a,http://c" {
		t.Errorf("buildURLList() = %v, want cached instance first", got)
	}

	client.clearReadyCache()
	if got := client.getReadyURL(); got != "" {
		t.Errorf("getReadyURL() after clear = %q, want empty", got)
	}
}

func TestClient_Failover(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	downURL := down.URL
	down.Close()

	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.ClusterListResponse{Clusters: []models.Cluster{{Name: "alpha"}}})
	}))
	defer up.Close()

	client := newTestClient(t, downURL, up.URL)

	clusters, err := client.ListClusters(context.Background())
	if err != nil {
		t.Fatalf("ListClusters() error = %v", err)
	}
	if len(clusters) != 1 || clusters[0].Name != "alpha" {
		t.Errorf("ListClusters() = %+v, want [alpha]", clusters)
	}
	if got := client.getReadyURL(); got != up.URL {
		t.Errorf("getReadyURL() = %q, want the answering instance %q", got, up.URL)
	}
}

func TestClient_AllInstancesFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, "internal_error", "boom")
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.ListClusters(context.Background())
	if !errors.Is(err, ErrAllInstancesFailed) {
		t.Errorf("ListClusters() error = %v, want ErrAllInstancesFailed", err)
	}
}

func TestClient_CalculateBackoff(t *testing.T) {
	client, err := NewClient(ClientConfig{
		BaseURLs:     []string{"https://console1.example.com"},
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	tests := []struct {
		name    string
		attempt int
		wantMax time.Duration
	}{
		{name: "first retry", attempt: 0, wantMax: 1 * time.Second},
		{name: "second retry", attempt: 1, wantMax: 2 * time.Second},
		{name: "third retry", attempt: 2, wantMax: 4 * time.Second},
		{name: "capped at max", attempt: 10, wantMax: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backoff := client.calculateBackoff(tt.attempt)

			if backoff < 0 {
				t.Errorf("calculateBackoff() = %v, want >= 0", backoff)
			}
			if backoff > tt.wantMax {
				t.Errorf("calculateBackoff() = %v, want <= %v", backoff, tt.wantMax)
			}
		})
	}
}

func TestClient_RetryReplaysBody(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if !strings.Contains(string(body), "alpha") {
			writeError(w, http.StatusBadRequest, "invalid_request", "empty body on retry")
			return
		}
		writeJSON(w, http.StatusOK, ImportResult{Created: 1})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.ImportCatalogue(context.Background(), []byte("clusters:\n  - name: alpha\n"))
	if err != nil {
		t.Fatalf("ImportCatalogue() error = %v", err)
	}
	if result.Created != 1 {
		t.Errorf("Created = %d, want 1", result.Created)
	}
	if calls.Load() != 2 {
		t.Errorf("server calls = %d, want 2", calls.Load())
	}
}

func TestClient_SessionCapture(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(HeaderSessionID))
		w.Header().Set(HeaderSessionID, "issued-session")
		writeJSON(w, http.StatusOK, models.SummaryState{Clusters: []string{"alpha"}, SelectedIndex: 0})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	if _, err := client.Summary(ctx); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if _, err := client.Summary(ctx); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("server calls = %d, want 2", len(seen))
	}
	if seen[0] != "" {
		t.Errorf("first request session = %q, want none", seen[0])
	}
	if seen[1] != "issued-session" {
		t.Errorf("second request session = %q, want issued-session", seen[1])
	}
	if client.Session() != "issued-session" {
		t.Errorf("Session() = %q, want issued-session", client.Session())
	}
}

func TestClient_ListClusters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/clusters" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, models.ClusterListResponse{
			Clusters: []models.Cluster{{Name: "alpha"}, {Name: "beta"}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	clusters, err := client.ListClusters(context.Background())
	if err != nil {
		t.Fatalf("ListClusters() error = %v", err)
	}
	if len(clusters) != 2 || clusters[1].Name != "beta" {
		t.Errorf("ListClusters() = %+v", clusters)
	}
}

func TestClient_GetCluster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/api/v1/clusters/prod%20grid":
			writeJSON(w, http.StatusOK, models.Cluster{Name: "prod grid"})
		default:
			writeError(w, http.StatusNotFound, "not_found", "cluster not found")
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	cluster, err := client.GetCluster(ctx, "prod grid")
	if err != nil {
		t.Fatalf("GetCluster() error = %v", err)
	}
	if cluster.Name != "prod grid" {
		t.Errorf("Name = %q, want %q", cluster.Name, "prod grid")
	}

	_, err = client.GetCluster(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCluster(missing) error = %v, want ErrNotFound", err)
	}
	if err != nil && !strings.Contains(err.Error(), "cluster not found") {
		t.Errorf("GetCluster(missing) error = %v, want server message", err)
	}
}

func TestClient_DeleteCluster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	if err := client.DeleteCluster(context.Background(), "alpha"); err != nil {
		t.Errorf("DeleteCluster() error = %v", err)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{name: "bad request", status: http.StatusBadRequest, code: "invalid_tab", want: ErrBadRequest},
		{name: "not found", status: http.StatusNotFound, code: "not_found", want: ErrNotFound},
		{name: "no selection", status: http.StatusConflict, code: "no_selection", want: ErrNoSelection},
		{name: "conflict", status: http.StatusConflict, code: "conflict", want: ErrConflict},
		{name: "too large", status: http.StatusRequestEntityTooLarge, code: "payload_too_large", want: ErrPayloadTooLarge},
		{name: "generation", status: http.StatusUnprocessableEntity, code: "generation_failed", want: ErrGenerationFailed},
		{name: "rate limited", status: http.StatusTooManyRequests, code: "rate_limit_exceeded", want: ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", "3")
				}
				writeError(w, tt.status, tt.code, "failure")
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			_, err := client.DownloadBundle(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("DownloadBundle() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClient_SelectAndTabs(t *testing.T) {
	var lastBody map[string]interface{}
	var lastPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		lastPath = r.URL.Path
		lastBody = map[string]interface{}{}
		json.NewDecoder(r.Body).Decode(&lastBody)
		writeJSON(w, http.StatusOK, models.SummaryState{SelectedIndex: 1})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	if _, err := client.SelectName(ctx, "beta"); err != nil {
		t.Fatalf("SelectName() error = %v", err)
	}
	if lastPath != "/api/v1/summary/selection" || lastBody["name"] != "beta" {
		t.Errorf("SelectName sent %s %v", lastPath, lastBody)
	}

	if _, err := client.SelectIndex(ctx, 0); err != nil {
		t.Fatalf("SelectIndex() error = %v", err)
	}
	if idx, ok := lastBody["index"].(float64); !ok || idx != 0 {
		t.Errorf("SelectIndex sent %v, want index 0", lastBody)
	}

	if _, err := client.ClearSelection(ctx); err != nil {
		t.Fatalf("ClearSelection() error = %v", err)
	}
	if len(lastBody) != 0 {
		t.Errorf("ClearSelection sent %v, want empty object", lastBody)
	}

	state, err := client.SetTab(ctx, TabGroupClient, 2)
	if err != nil {
		t.Fatalf("SetTab() error = %v", err)
	}
	if lastPath != "/api/v1/summary/tabs/client" {
		t.Errorf("SetTab path = %s", lastPath)
	}
	if tab, ok := lastBody["active_tab"].(float64); !ok || tab != 2 {
		t.Errorf("SetTab sent %v, want active_tab 2", lastBody)
	}
	if state.SelectedIndex != 1 {
		t.Errorf("SelectedIndex = %d, want 1", state.SelectedIndex)
	}
}

func TestClient_DownloadBundle(t *testing.T) {
	archive := []byte("PK\x03\x04 fake zip")
	const etag = `"abc123"`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/summary/bundle" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/zip" {
			t.Errorf("Accept = %q, want application/zip", r.Header.Get("Accept"))
		}
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="alpha-configuration.zip"`)
		w.Header().Set("Content-Type", "application/zip")
		w.Write(archive)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	bundle, err := client.DownloadBundle(ctx)
	if err != nil {
		t.Fatalf("DownloadBundle() error = %v", err)
	}
	if bundle.FileName != "alpha-configuration.zip" {
		t.Errorf("FileName = %q, want alpha-configuration.zip", bundle.FileName)
	}
	if bundle.ETag != etag {
		t.Errorf("ETag = %q, want %q", bundle.ETag, etag)
	}
	if string(bundle.Data) != string(archive) {
		t.Errorf("Data = %q, want %q", bundle.Data, archive)
	}

	unchanged, err := client.DownloadBundleIfChanged(ctx, etag)
	if err != nil {
		t.Fatalf("DownloadBundleIfChanged() error = %v", err)
	}
	if unchanged != nil {
		t.Error("DownloadBundleIfChanged() returned a bundle for a matching ETag")
	}

	changed, err := client.DownloadBundleIfChanged(ctx, `"stale"`)
	if err != nil {
		t.Fatalf("DownloadBundleIfChanged() error = %v", err)
	}
	if changed == nil || changed.FileName != "alpha-configuration.zip" {
		t.Errorf("DownloadBundleIfChanged() = %+v, want a fresh bundle", changed)
	}
}

func TestClient_ExportCluster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/clusters/alpha/bundle" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var payload models.ExportPayload
		body, _ := io.ReadAll(r.Body)
		if len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Errorf("invalid payload: %v", err)
			}
		}

		w.Header().Set("Content-Disposition", `attachment; filename="alpha-configuration.zip"`)
		w.Write([]byte(payload.Docker))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	bundle, err := client.ExportCluster(ctx, "alpha", &ExportPayload{Docker: "FROM scratch\n"})
	if err != nil {
		t.Fatalf("ExportCluster() error = %v", err)
	}
	if string(bundle.Data) != "FROM scratch\n" {
		t.Errorf("Data = %q, want the payload echoed", bundle.Data)
	}

	bundle, err = client.ExportCluster(ctx, "alpha", nil)
	if err != nil {
		t.Fatalf("ExportCluster(nil) error = %v", err)
	}
	if len(bundle.Data) != 0 {
		t.Errorf("Data = %q, want empty for no payload", bundle.Data)
	}
}

func TestClient_ExportHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		writeJSON(w, http.StatusOK, models.ExportHistoryResponse{
			Exports: []models.ExportRecord{{ID: 2, ClusterName: "alpha", FileName: "alpha-configuration.zip"}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	records, err := client.ExportHistory(context.Background(), 5)
	if err != nil {
		t.Fatalf("ExportHistory() error = %v", err)
	}
	if len(records) != 1 || records[0].ClusterName != "alpha" {
		t.Errorf("ExportHistory() = %+v", records)
	}
}

func TestClient_ValidateBundle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/zip" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) == "good" {
			writeJSON(w, http.StatusOK, ValidationResult{Valid: true, Files: []string{"Dockerfile"}, Size: 4})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResult{Valid: false, Error: "invalid bundle format"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	result, err := client.ValidateBundle(ctx, []byte("good"))
	if err != nil {
		t.Fatalf("ValidateBundle() error = %v", err)
	}
	if !result.Valid || len(result.Files) != 1 {
		t.Errorf("ValidateBundle(good) = %+v", result)
	}

	result, err = client.ValidateBundle(ctx, []byte("bad"))
	if err != nil {
		t.Fatalf("ValidateBundle() error = %v", err)
	}
	if result.Valid || result.Error == "" {
		t.Errorf("ValidateBundle(bad) = %+v, want invalid with error", result)
	}
}

func TestClient_Ready(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ready", InstanceID: "i-1", Database: "connected"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	status, err := client.Ready(context.Background())
	if err != nil {
		t.Fatalf("Ready() error = %v", err)
	}
	if status.Status != "ready" || status.InstanceID != "i-1" {
		t.Errorf("Ready() = %+v", status)
	}
}

func TestClient_RetriesRateLimited(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			writeError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "slow down")
			return
		}
		writeJSON(w, http.StatusOK, models.ClusterListResponse{Clusters: []models.Cluster{{Name: "alpha"}}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	clusters, err := client.ListClusters(context.Background())
	if err != nil {
		t.Fatalf("ListClusters() error = %v", err)
	}
	if len(clusters) != 1 {
		t.Errorf("ListClusters() = %+v, want one cluster", clusters)
	}
	if calls.Load() != 2 {
		t.Errorf("server calls = %d, want 2", calls.Load())
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusOK, false},
		{http.StatusNotFound, false},
		{http.StatusConflict, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusNotImplemented, false},
		{http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		if got := retryable(tt.status); got != tt.want {
			t.Errorf("retryable(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestClient_APIErrorDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, models.ErrorResponse{
			Error:     "no_selection",
			Message:   "No cluster is selected",
			RequestID: "6f1c2a55-7a1e-4b8e-9d7e-2b9f0d3c4e5a",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.DownloadBundle(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("DownloadBundle() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Code != "no_selection" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if apiErr.RequestID != "6f1c2a55-7a1e-4b8e-9d7e-2b9f0d3c4e5a" {
		t.Errorf("RequestID = %q", apiErr.RequestID)
	}
	if !strings.Contains(err.Error(), "No cluster is selected") {
		t.Errorf("error text %q lacks the server message", err.Error())
	}
}

func TestAPIError_NonEnvelopeBody(t *testing.T) {
	err := &APIError{StatusCode: http.StatusTeapot}
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", err.Unwrap())
	}
	if err.Error() != "status 418: I'm a teapot" {
		t.Errorf("Error() = %q", err.Error())
	}
}
