package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotebook/quotebook/internal/auth"
	"github.com/quotebook/quotebook/internal/observability"
	"github.com/quotebook/quotebook/internal/settings"
	"github.com/quotebook/quotebook/internal/shared"
)

type memSettings struct {
	record *settings.CompanySettings
}

func (m *memSettings) Add(_ context.Context, s settings.CompanySettings) error {
	if m.record != nil {
		return shared.ErrConflict
	}
	m.record = &s
	return nil
}

func (m *memSettings) Update(context.Context, settings.Patch) error {
	if m.record == nil {
		return shared.ErrNotFound
	}
	return nil
}

func (m *memSettings) Get(context.Context) (*settings.CompanySettings, error) {
	if m.record == nil {
		return nil, shared.ErrNotFound
	}
	out := *m.record
	out.HasPassword = out.PasswordHash != nil
	return &out, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second, RateLimitPerMinute: 1000}
	settingsService := settings.NewService(&memSettings{})
	clock := shared.FixedClock(time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC))

	return NewRouter(RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  shared.NewSessionManager(client, "quotebook_session", "secret", time.Hour, false),
		Metrics:         observability.NewMetrics(),
		AuthHandler:     auth.NewHandler(logger, auth.NewService(settingsService), clock),
		SettingsHandler: settings.NewHandler(logger, settingsService),
	})
}

func serve(router http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.1:1234"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthzAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = serve(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `quotebook_http_requests_total{code="200",route="/healthz"} 1`)
}

func TestAPIRequiresUnlockedSession(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/settings", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, http.MethodPost, "/auth/setup", `{"ownerName":"Ana","password":"1234"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "quotebook_session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	rec = serve(router, http.MethodGet, "/api/settings", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), settings.DefaultCompanyName)

	rec = serve(router, http.MethodPost, "/auth/lock", "", cookie)
	assert.Less(t, rec.Code, 300)

	rec = serve(router, http.MethodGet, "/api/settings", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("TIMEZONE", "America/Sao_Paulo")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())

	t.Setenv("TIMEZONE", "Nowhere/Invalid")
	_, err = LoadConfig()
	assert.Error(t, err)
}
