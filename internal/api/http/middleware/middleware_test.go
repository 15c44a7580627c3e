package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/hypecard-server/internal/api/http/context"
	"github.com/dtroode/hypecard-server/internal/testutil"
)

type fakeTokenService struct {
	userID uuid.UUID
	err    error
	got    string
}

func (f *fakeTokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	f.got = token
	return f.userID, f.err
}

func newEngine(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares...)
	return r
}

func TestAuthenticate(t *testing.T) {
	uid := uuid.New()
	ctxMgr := httpctx.NewManager()

	tests := []struct {
		name       string
		header     string
		service    *fakeTokenService
		wantStatus int
	}{
		{name: "valid", header: "Bearer tok", service: &fakeTokenService{userID: uid}, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer tok", service: &fakeTokenService{userID: uid}, wantStatus: http.StatusOK},
		{name: "missing header", service: &fakeTokenService{userID: uid}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", service: &fakeTokenService{userID: uid}, wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer   ", service: &fakeTokenService{userID: uid}, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer tok", service: &fakeTokenService{err: errors.New("bad")}, wantStatus: http.StatusUnauthorized},
		{name: "nil subject", header: "Bearer tok", service: &fakeTokenService{}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := NewAuthenticate(tt.service, ctxMgr, testutil.MakeNoopLogger())
			r := newEngine(auth.Handle)
			var seen uuid.UUID
			r.GET("/me", func(c *gin.Context) {
				seen, _ = ctxMgr.GetUserIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, uid, seen)
				assert.Equal(t, "tok", tt.service.got)
			} else {
				assert.Contains(t, w.Body.String(), "Missing or invalid authorization header")
			}
		})
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	log, buf := testutil.MakeBufferLogger()
	l := NewLogging(log)
	r := newEngine(l.Handle)
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, buf.String(), "HTTP request completed")
	assert.Contains(t, buf.String(), "status=202")

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "path=/boom")
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Unix(0, 0)
	l := newIPRateLimiter(1, time.Second, 2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"))

	now = now.Add(2 * time.Minute)
	l.Allow("c")
	l.mu.Lock()
	_, hasA := l.visitors["a"]
	l.mu.Unlock()
	assert.False(t, hasA)
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(NewIPRateLimiter(1, time.Hour, 1, time.Hour)))
	r.POST("/api/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"status":429`)
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS("https://hypecard.com/"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://hypecard.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://hypecard.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://hypecard.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := newEngine(SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestBodyLimit(t *testing.T) {
	r := newEngine(BodyLimit(8))
	r.POST("/x", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("much too large")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/x", io.NopCloser(bytes.NewReader([]byte("much too large"))))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
