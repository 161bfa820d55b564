package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/jobs", func(c *gin.Context) {
		c.String(http.StatusOK, "[]")
	})
	return r
}

func serveCORS(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/jobs", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_DefaultConfig(t *testing.T) {
	r := corsRouter(CORS())

	w := serveCORS(r, http.MethodGet, "http://example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Allow-Methods header missing")
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Error("Allow-Headers header missing")
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("Max-Age = %q, want 86400", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Vary = %q, want Origin", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := corsRouter(CORS())

	w := serveCORS(r, http.MethodOptions, "http://example.com")
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestCORS_NoOriginHeader(t *testing.T) {
	// Same-origin requests carry no Origin header and get no CORS headers.
	r := corsRouter(CORS())

	w := serveCORS(r, http.MethodGet, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want absent", got)
	}
}

func TestCORSWithConfig_Allowlist(t *testing.T) {
	tests := []struct {
		name            string
		allowOrigins    []string
		origin          string
		wantAllowOrigin string
	}{
		{
			name:            "listed origin allowed",
			allowOrigins:    []string{"http://example.com", "http://localhost:3000"},
			origin:          "http://example.com",
			wantAllowOrigin: "http://example.com",
		},
		{
			name:            "unlisted origin denied",
			allowOrigins:    []string{"http://example.com"},
			origin:          "http://evil.com",
			wantAllowOrigin: "",
		},
		{
			name:            "empty allowlist denies everything",
			allowOrigins:    []string{},
			origin:          "http://example.com",
			wantAllowOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := corsRouter(CORSWithConfig(CORSConfig{
				AllowOrigins: tt.allowOrigins,
				AllowMethods: []string{"GET"},
				AllowHeaders: []string{"Content-Type"},
				MaxAge:       "3600",
			}))

			w := serveCORS(r, http.MethodGet, tt.origin)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllowOrigin)
			}
			// The response varies by Origin whether or not this one passed.
			if got := w.Header().Get("Vary"); got != "Origin" {
				t.Errorf("Vary = %q, want Origin", got)
			}
		})
	}
}

func TestCORSWithConfig_CredentialsEchoOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowCredentials = true
	r := corsRouter(CORSWithConfig(cfg))

	w := serveCORS(r, http.MethodGet, "http://example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("Allow-Origin = %q, want the origin echoed", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard allows any", []string{"*"}, "http://any.com", true},
		{"exact match", []string{"http://a.com"}, "http://a.com", true},
		{"no match", []string{"http://a.com"}, "http://b.com", false},
		{"later entry matches", []string{"http://a.com", "http://b.com"}, "http://b.com", true},
		{"none of several match", []string{"http://a.com", "http://b.com"}, "http://c.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := originAllowed(tt.allowed, tt.origin); got != tt.want {
				t.Errorf("originAllowed(%v, %q) = %v, want %v", tt.allowed, tt.origin, got, tt.want)
			}
		})
	}
}
