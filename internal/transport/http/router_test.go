package httptransport_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhandler "todotrack/internal/auth/handler"
	authservice "todotrack/internal/auth/service"
	authstore "todotrack/internal/auth/store"
	"todotrack/internal/auth/store/revocation"
	"todotrack/internal/category"
	"todotrack/internal/jwttoken"
	"todotrack/internal/platform/metrics"
	taskhandler "todotrack/internal/task/handler"
	taskservice "todotrack/internal/task/service"
	taskstore "todotrack/internal/task/store"
	httptransport "todotrack/internal/transport/http"
)

func newTestRouter(t *testing.T, health func(*http.Request) error) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	tokens := jwttoken.NewService("test-key", "todotrack", "todotrack-api")
	trl := revocation.NewInMemoryList()
	sessions := authstore.NewInMemorySessionStore()
	authSvc, err := authservice.New(authstore.NewInMemoryUserStore(), sessions, trl, tokens,
		authservice.WithLogger(logger))
	require.NoError(t, err)
	validator := authservice.NewTokenValidator(tokens, trl, sessions)

	taskSvc, err := taskservice.New(taskstore.NewInMemoryStore(), category.NewStaticValidator(category.DefaultCategories),
		taskservice.WithLogger(logger))
	require.NoError(t, err)

	return httptransport.NewRouter(httptransport.Deps{
		Auth:     authhandler.New(authSvc, validator, logger, m),
		Tasks:    taskhandler.New(taskSvc, logger, m, validator),
		Registry: registry,
		Health:   health,
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestHealthzDegraded(t *testing.T) {
	router := newTestRouter(t, func(*http.Request) error { return errors.New("redis down") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// End to end through the composed router: register, login, create an item.
func TestFullFlow(t *testing.T) {
	router := newTestRouter(t, nil)

	body := func(v any) *bytes.Reader {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		return bytes.NewReader(raw)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/register", body(map[string]string{
		"email": "ada@example.com", "password": "supersecret",
	}))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/auth/login", body(map[string]string{
		"email": "ada@example.com", "password": "supersecret",
	}))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))

	req = httptest.NewRequest(http.MethodPost, "/todos", body(map[string]string{
		"title": "write report", "category": "Work",
	}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginResp.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
