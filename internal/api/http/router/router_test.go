package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/hypecard-server/internal/api/http/context"
	"github.com/dtroode/hypecard-server/internal/api/http/middleware"
	"github.com/dtroode/hypecard-server/internal/billing/revenuecat"
	servermocks "github.com/dtroode/hypecard-server/internal/mocks"
	"github.com/dtroode/hypecard-server/internal/model"
	"github.com/dtroode/hypecard-server/internal/service"
	"github.com/dtroode/hypecard-server/internal/testutil"
	"github.com/dtroode/hypecard-server/internal/token"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type fixture struct {
	engine   *gin.Engine
	jwt      *token.JWT
	users    *servermocks.UserStore
	videos   *servermocks.VideoStore
	provider *servermocks.VideoSynthesizer
}

func newFixture(t *testing.T, limiter middleware.RateLimiter) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.MakeNoopLogger()

	f := fixture{
		jwt:      token.NewJWT("test-secret", time.Hour, 24*time.Hour),
		users:    &servermocks.UserStore{},
		videos:   &servermocks.VideoStore{},
		provider: &servermocks.VideoSynthesizer{},
	}
	refresh := &servermocks.RefreshTokenStore{}
	events := &servermocks.WebhookEventStore{}
	publisher := &servermocks.EventPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	auth := service.NewAuth(f.users, refresh, log, f.jwt)
	videos := service.NewVideo(f.videos, f.users, f.provider, publisher,
		service.Personas{Female: "r6ae5b6efc9d", Male: "rf4703150052"}, "https://hypecard.com", log)
	subscriptions := service.NewSubscription(f.users, events, revenuecat.NewProvider("secret", false), nil, publisher, log)
	tokens := service.NewTokenService(f.jwt, refresh, log)

	r := New(auth, videos, subscriptions, tokens, okPinger{}, httpctx.NewManager(), Options{
		FrontendURL:     "https://hypecard.com",
		MaxBodyBytes:    1 << 20,
		AuthLimiter:     limiter,
		SignatureHeader: revenuecat.SignatureHeader,
	}, log)
	f.engine = r.Register()
	return f
}

func (f fixture) do(t *testing.T, method, path, body, bearer string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func errorMessage(t *testing.T, body map[string]any) string {
	t.Helper()
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", body)
	return e["message"].(string)
}

func TestRouter_PublicRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w, body := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w, body = f.do(t, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", errorMessage(t, body))

	w, body = f.do(t, http.MethodGet, "/api/card/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid card ID", errorMessage(t, body))
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t, nil)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodPost, "/api/form"},
		{http.MethodGet, "/api/videos"},
		{http.MethodDelete, "/api/videos/1"},
		{http.MethodGet, "/api/subscribe/status"},
	} {
		w, body := f.do(t, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
		assert.Equal(t, "Missing or invalid authorization header", errorMessage(t, body))

		w, _ = f.do(t, route.method, route.path, "", "garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestRouter_FreeUserCreateThenShareCard(t *testing.T) {
	f := newFixture(t, nil)
	user := model.User{ID: uuid.New(), Email: "jane@example.com"}
	access, err := f.jwt.GenerateAccessToken(user.ID)
	require.NoError(t, err)

	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	record := model.VideoRecord{
		ID: 42, UserID: user.ID, FormType: "personal", Name: "Jane Doe", Tagline: "Build things",
		Avatar: "female", ProviderVideoID: "abc123", Status: model.VideoStatusProcessing, FreeTierSlot: true, CreatedAt: created,
	}

	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	f.videos.On("CountByUserID", mock.Anything, user.ID).Return(0, nil).Once()
	f.provider.On("Generate", mock.Anything, model.GenerateRequest{
		Script:    "Hello, I'm Jane Doe. Build things",
		PersonaID: "r6ae5b6efc9d",
		JobName:   "Jane Doe-HypeCard",
	}).Return(model.ProviderVideo{JobID: "abc123", Status: model.VideoStatusProcessing}, nil).Once()
	f.videos.On("Create", mock.Anything, mock.Anything).Return(record, nil).Once()

	w, body := f.do(t, http.MethodPost, "/api/form",
		`{"formType":"personal","name":"Jane Doe","tagline":"Build things","avatar":"female"}`, access)
	require.Equal(t, http.StatusCreated, w.Code, body)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 42, data["id"])
	assert.Equal(t, "processing", data["status"])
	assert.Nil(t, data["stream_url"])

	f.videos.On("CountByUserID", mock.Anything, user.ID).Return(1, nil).Once()
	w, body = f.do(t, http.MethodPost, "/api/form", `{"formType":"personal","name":"Again"}`, access)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, model.MsgFreeTierLimit, errorMessage(t, body))

	completed := record
	completed.Status = model.VideoStatusCompleted
	completed.StreamURL = "https://stream/abc123"
	completed.DownloadURL = "https://download/abc123"

	f.videos.On("GetByID", mock.Anything, int64(42)).Return(record, nil).Once()
	f.provider.On("Status", mock.Anything, "abc123").Return(model.ProviderVideo{
		JobID: "abc123", Status: model.VideoStatusCompleted, StreamURL: completed.StreamURL, DownloadURL: completed.DownloadURL,
	}, nil).Once()
	f.videos.On("UpdateProviderState", mock.Anything, completed).Return(nil).Once()

	w, body = f.do(t, http.MethodGet, "/api/card/42", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	card := body["data"].(map[string]any)
	assert.Equal(t, "completed", card["status"])
	assert.Equal(t, "https://stream/abc123", card["stream_url"])

	f.videos.On("GetByID", mock.Anything, int64(42)).Return(completed, nil).Once()
	w, body = f.do(t, http.MethodGet, "/api/card/42/share", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	share := body["data"].(map[string]any)
	assert.Equal(t, "Jane Doe's HypeCard", share["title"])
	assert.Equal(t, "https://hypecard.com/card/42", share["url"])

	f.videos.On("GetByID", mock.Anything, int64(42)).Return(completed, nil).Once()
	w, body = f.do(t, http.MethodDelete, "/api/videos/42", "", access)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, model.MsgDeleteRequiresPro, errorMessage(t, body))
	f.videos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.provider.AssertNumberOfCalls(t, "Status", 1)
}

func TestRouter_AuthRateLimit(t *testing.T) {
	f := newFixture(t, middleware.NewIPRateLimiter(1, time.Hour, 2, time.Hour))
	f.users.On("GetByEmail", mock.Anything, "a@b.co").Return(model.User{}, model.ErrNotFound)

	for i := 0; i < 2; i++ {
		w, _ := f.do(t, http.MethodPost, "/api/login", `{"email":"a@b.co","password":"password1"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w, body := f.do(t, http.MethodPost, "/api/login", `{"email":"a@b.co","password":"password1"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, errorMessage(t, body), "Too many requests")

	w, _ = f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	f := newFixture(t, nil)
	big := `{"email":"` + strings.Repeat("a", 2<<20) + `"}`

	w, body := f.do(t, http.MethodPost, "/api/login", big, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Request body too large", errorMessage(t, body))
}
