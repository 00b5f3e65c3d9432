package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhattastan/foodfleet/pkg/auth"
	"github.com/serhattastan/foodfleet/pkg/config"
	"github.com/serhattastan/foodfleet/pkg/metrics"
)

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10},
	}
}

func TestHealthLiveRoute(t *testing.T) {
	router := NewRouter(RouterParams{Config: testRouterConfig()})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-FoodFleet-Env"))

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "live", envelope.Data["status"])
}

func TestMetricsRouteExposed(t *testing.T) {
	router := NewRouter(RouterParams{
		Config:  testRouterConfig(),
		Metrics: metrics.NewHTTPMetrics(),
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := NewRouter(RouterParams{Config: testRouterConfig()})

	for _, target := range []string{
		"/api/v1/cart",
		"/api/v1/favorites",
		"/api/v1/orders",
		"/api/v1/profile",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		assert.Equalf(t, http.StatusUnauthorized, resp.Code, "expected 401 for %s", target)
	}
}

func TestAuthenticatedRouteAcceptsToken(t *testing.T) {
	cfg := testRouterConfig()
	router := NewRouter(RouterParams{Config: cfg})

	token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{Owner: "owner-1"})
	require.NoError(t, err)

	// The cart service is not wired, so the handler reports an internal
	// error; the point is that auth no longer rejects the request.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.NotEqual(t, http.StatusUnauthorized, resp.Code)
}

func TestPublicPing(t *testing.T) {
	router := NewRouter(RouterParams{Config: testRouterConfig()})

	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}
