package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"todotrack/internal/auth/handler"
	"todotrack/internal/auth/service"
	"todotrack/internal/auth/store"
	"todotrack/internal/auth/store/revocation"
	"todotrack/internal/jwttoken"
	"todotrack/internal/platform/metrics"
)

type HandlerSuite struct {
	suite.Suite
	router    chi.Router
	validator *service.TokenValidator
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	tokens := jwttoken.NewService("test-key", "todotrack", "todotrack-api")
	trl := revocation.NewInMemoryList()

	sessions := store.NewInMemorySessionStore()

	svc, err := service.New(store.NewInMemoryUserStore(), sessions, trl, tokens,
		service.WithLogger(logger),
	)
	s.Require().NoError(err)
	s.validator = service.NewTokenValidator(tokens, trl, sessions)

	s.router = chi.NewRouter()
	handler.New(svc, s.validator, logger, metrics.New(prometheus.NewRegistry())).Register(s.router)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) post(path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) register(email, password string) *httptest.ResponseRecorder {
	return s.post("/auth/register", map[string]string{"email": email, "password": password}, nil)
}

func (s *HandlerSuite) login(email, password string) *httptest.ResponseRecorder {
	return s.post("/auth/login", map[string]string{"email": email, "password": password}, nil)
}

func (s *HandlerSuite) TestRegisterLoginLogout() {
	rec := s.register("ada@example.com", "supersecret")
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.login("ada@example.com", "supersecret")
	s.Require().Equal(http.StatusOK, rec.Code)

	var loginResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &loginResp))
	s.Equal("Bearer", loginResp.TokenType)
	s.NotEmpty(loginResp.AccessToken)

	rec = s.post("/auth/logout", struct{}{}, map[string]string{
		"Authorization": "Bearer " + loginResp.AccessToken,
	})
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	// The token stops working after logout.
	_, err := s.validator.ValidateToken(httptest.NewRequest(http.MethodGet, "/", nil).Context(), loginResp.AccessToken)
	s.Error(err)
}

func (s *HandlerSuite) TestRegisterRejectsWeakInput() {
	rec := s.register("not-an-email", "supersecret")
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.register("ada@example.com", "short")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestRegisterDuplicate() {
	s.Require().Equal(http.StatusCreated, s.register("ada@example.com", "supersecret").Code)
	s.Equal(http.StatusConflict, s.register("ada@example.com", "othersecret").Code)
}

func (s *HandlerSuite) TestLoginBadCredentials() {
	s.Require().Equal(http.StatusCreated, s.register("ada@example.com", "supersecret").Code)

	rec := s.login("ada@example.com", "wrong-password")
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.login("nobody@example.com", "supersecret")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestLogoutWithoutToken() {
	rec := s.post("/auth/logout", struct{}{}, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}
