package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kiwoompulse/internal/logger"
)

func TestRequestLogger_Levels(t *testing.T) {
	cases := []struct {
		name   string
		status int
		level  string
	}{
		{"ok", http.StatusOK, "info"},
		{"client error", http.StatusNotFound, "warn"},
		{"server error", http.StatusBadGateway, "error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger.InitWithWriter(&buf)
			t.Cleanup(logger.Init)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestID(), RequestLogger())
			router.GET("/api/v1/rankings/trade-value", func(c *gin.Context) { c.Status(tc.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rankings/trade-value?mrkt_tp=001", nil))

			var entry map[string]any
			line := strings.TrimSpace(buf.String())
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("log line not JSON: %q: %v", line, err)
			}
			if entry["level"] != tc.level {
				t.Fatalf("level=%v want %s", entry["level"], tc.level)
			}
			if entry["component"] != "http" || entry["query"] != "mrkt_tp=001" {
				t.Fatalf("unexpected entry %v", entry)
			}
			if entry["request_id"] != w.Header().Get(RequestIDHeader) {
				t.Fatalf("request id mismatch: %v vs %s", entry["request_id"], w.Header().Get(RequestIDHeader))
			}
			if int(entry["status"].(float64)) != tc.status {
				t.Fatalf("status=%v want %d", entry["status"], tc.status)
			}
		})
	}
}

func TestRequestLogger_IncludesErrors(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf)
	t.Cleanup(logger.Init)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(), ErrorHandler)
	router.GET("/fail", func(c *gin.Context) { _ = c.Error(assertErr{}) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	if !strings.Contains(buf.String(), `"errors":"Error #01: boom`) {
		t.Fatalf("expected errors in log, got %s", buf.String())
	}
}
