package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID_HeaderIsSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.String(200, "ok")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != 200 {
		t.Fatalf("code=%d", w.Code)
	}
	if got := w.Header().Get(RequestIDHeader); got == "" || got != seen {
		t.Fatalf("header %q, context %q", got, seen)
	}
}

func TestRequestID_Propagation(t *testing.T) {
	cases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "valid uuid kept", incoming: "123e4567-e89b-12d3-a456-426614174000", keep: true},
		{name: "garbage replaced", incoming: "not-a-uuid", keep: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(RequestID())
			r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tc.incoming)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			got := w.Header().Get(RequestIDHeader)
			if (got == tc.incoming) != tc.keep || got == "" {
				t.Fatalf("incoming %q -> %q", tc.incoming, got)
			}
		})
	}
}
