package middlewares_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/invoicehub/internal/actorctx"
	"github.com/geocoder89/invoicehub/internal/auth"
	"github.com/geocoder89/invoicehub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type managerVerifier struct{ m *auth.Manager }

func (v managerVerifier) VerifyToken(raw string) (auth.Identity, error) { return v.m.Verify(raw) }

type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewManager("test-secret-key", time.Hour)
	valid, _, err := manager.Issue("user-1", "a@example.com")
	require.NoError(t, err)

	issuedAt := time.Now().Add(-48 * time.Hour)
	expired, _, err := manager.WithClock(func() time.Time { return issuedAt }).Issue("user-1", "a@example.com")
	require.NoError(t, err)

	foreign, _, err := auth.NewManager("other-secret", time.Hour).Issue("user-1", "a@example.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "bearer without token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusForbidden, wantCode: "invalid_token"},
		{name: "garbage token", header: "Bearer not.a.jwt", wantStatus: http.StatusForbidden, wantCode: "invalid_token"},
		{name: "foreign signature", header: "Bearer " + foreign, wantStatus: http.StatusForbidden, wantCode: "invalid_token"},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusForbidden, wantCode: "token_expired"},
		{name: "valid", header: "Bearer " + valid, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middlewares.RequestID())
			r.GET("/private", middlewares.NewAuthMiddleware(managerVerifier{manager}, nil).RequireAuth(), func(c *gin.Context) {
				id, ok := actorctx.IdentityFrom(c.Request.Context())
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"userId": id.UserID, "email": id.Email})
			})

			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantCode == "" {
				require.JSONEq(t, `{"userId":"user-1","email":"a@example.com"}`, w.Body.String())
				return
			}

			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, tt.wantCode, body.Error.Code)
			require.NotEmpty(t, body.Error.RequestID)
		})
	}
}

func TestRequireJSON(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequireJSON())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		contentType string
		want        int
	}{
		{"text/plain", http.StatusUnsupportedMediaType},
		{"", http.StatusUnsupportedMediaType},
		{"application/jsonx", http.StatusUnsupportedMediaType},
		{"application/json; charset=utf-8", http.StatusCreated},
		{"Application/JSON", http.StatusCreated},
		{"application/merge-patch+json", http.StatusCreated},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{}`))
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, tt.want, w.Code, tt.contentType)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.CORSMiddleware([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	require.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.CORSMiddleware([]string{"*"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middlewares.CtxRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
	require.Equal(t, "abc-123", w.Body.String())

	for _, bad := range []string{"", "has space", strings.Repeat("a", 129)} {
		req = httptest.NewRequest(http.MethodGet, "/x", nil)
		if bad != "" {
			req.Header.Set("X-Request-Id", bad)
		}
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		got := w.Header().Get("X-Request-Id")
		require.NotEmpty(t, got)
		require.NotEqual(t, bad, got)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r := gin.New()
	r.Use(middlewares.RequestID(), middlewares.RequestLogger(log))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Zero(t, buf.Len(), "probe routes log at debug")

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "ERROR", rec["level"])
	require.Equal(t, "/boom", rec["route"])
	require.Equal(t, float64(500), rec["status"])
	require.NotEmpty(t, rec["request_id"])
	require.NotContains(t, buf.String(), "secret-token")
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.SecurityHeaders(middlewares.SecurityOptions{}))
	r.GET("/docs", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/invoices", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices", nil))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	require.Empty(t, w.Header().Get("Strict-Transport-Security"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Contains(t, w.Header().Get("Content-Security-Policy"), "unpkg.com")
	require.Empty(t, w.Header().Get("Cache-Control"))
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.SecurityHeaders(middlewares.SecurityOptions{HSTS: true}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
}
