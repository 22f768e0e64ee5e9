package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gridcfg.io/console/internal/logging"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger, logs := observedLogger()

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 completion entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields[logging.FieldMethod] != http.MethodGet || fields[logging.FieldPath] != "/test" {
		t.Errorf("Unexpected fields: %v", fields)
	}
	if fields[logging.FieldUserAgent] != "test-agent" {
		t.Errorf("Expected user agent field, got %v", fields[logging.FieldUserAgent])
	}
	if w.Header().Get(HeaderRequestID) != fields[logging.FieldRequestID] {
		t.Errorf("Response request ID %q does not match log %v", w.Header().Get(HeaderRequestID), fields[logging.FieldRequestID])
	}
}

func TestRequestLogger_LoggerInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger, logs := observedLogger()

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("from handler")
		GetLogger(c).Info("from gin")
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	for _, msg := range []string{"from handler", "from gin"} {
		entries := logs.FilterMessage(msg).All()
		if len(entries) != 1 {
			t.Fatalf("Expected 1 %q entry, got %d", msg, len(entries))
		}
		if _, ok := entries[0].ContextMap()[logging.FieldRequestID]; !ok {
			t.Errorf("%q entry is missing the request ID", msg)
		}
	}
}

func TestRequestLogger_RequestIDGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var requestID string

	router := gin.New()
	router.Use(RequestLogger(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		requestID = GetRequestID(c)
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	if len(requestID) != 36 { // UUID length
		t.Errorf("Expected UUID format (36 chars), got %q", requestID)
	}
}

func TestRequestLogger_Levels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		path  string
		code  int
		msg   string
		level zapcore.Level
	}{
		{"/ok", http.StatusOK, "request completed", zapcore.InfoLevel},
		{"/bad-request", http.StatusBadRequest, "request completed with client error", zapcore.WarnLevel},
		{"/error", http.StatusInternalServerError, "request completed with server error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			logger, logs := observedLogger()

			router := gin.New()
			router.Use(RequestLogger(logger))
			router.GET(tt.path, func(c *gin.Context) {
				if tt.code >= 500 {
					_ = c.Error(http.ErrBodyReadAfterClose)
				}
				c.Status(tt.code)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			entries := logs.FilterMessage(tt.msg).All()
			if len(entries) != 1 {
				t.Fatalf("Expected 1 %q entry, got %d", tt.msg, len(entries))
			}
			if entries[0].Level != tt.level {
				t.Errorf("Expected level %v, got %v", tt.level, entries[0].Level)
			}
			if tt.code >= 500 {
				if _, ok := entries[0].ContextMap()[logging.FieldError]; !ok {
					t.Errorf("Expected error field on server error entry")
				}
			}
		})
	}
}

func TestGetLogger_NoLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	logger := GetLogger(c)
	if logger == nil {
		t.Fatal("Expected no-op logger when none exists")
	}

	// Should not panic
	logger.Info("test message")
}

func TestGetRequestID_NoRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if requestID := GetRequestID(c); requestID != "" {
		t.Errorf("Expected empty request ID, got %s", requestID)
	}
}

func TestRequestLogger_KeepsCallerRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLogger(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := map[string]bool{
		"6f1c2a55-7a1e-4b8e-9d7e-2b9f0d3c4e5a": true,
		"not-a-uuid":                           false,
	}
	for incoming, kept := range tests {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, incoming)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		got := w.Header().Get(HeaderRequestID)
		if (got == incoming) != kept {
			t.Errorf("incoming %q: response request ID %q, kept=%v", incoming, got, kept)
		}
		if len(got) != 36 {
			t.Errorf("incoming %q: expected UUID request ID, got %q", incoming, got)
		}
	}
}
