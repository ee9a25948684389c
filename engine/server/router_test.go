package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/compozy/demoutils/engine/server"
	"github.com/compozy/demoutils/pkg/config"
	"github.com/compozy/demoutils/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, lm *server.LimiterMap, mutate ...func(*config.Config)) *httptest.Server {
	t.Helper()
	logger.Disable()
	t.Cleanup(logger.Enable)

	cfg := config.DefaultConfig()
	for _, m := range mutate {
		m(cfg)
	}
	ts := httptest.NewServer(server.NewRouter(cfg, lm))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRouter(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("Should report health", func(t *testing.T) {
		code, body := getJSON(t, ts.URL+"/healthz")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("Should greet the world by default", func(t *testing.T) {
		code, body := getJSON(t, ts.URL+"/api/greet")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Hello, World! Welcome to LocalStack CI/CD Workshop", body["message"])
	})

	t.Run("Should greet a named visitor", func(t *testing.T) {
		_, body := getJSON(t, ts.URL+"/api/greet?name=LocalStack")
		assert.Equal(t, "Hello, LocalStack! Welcome to LocalStack CI/CD Workshop", body["message"])
	})

	t.Run("Should add and multiply", func(t *testing.T) {
		_, body := getJSON(t, ts.URL+"/api/add?a=2&b=3")
		assert.EqualValues(t, 5, body["result"])

		_, body = getJSON(t, ts.URL+"/api/add?a=-1&b=1")
		assert.EqualValues(t, 0, body["result"])

		_, body = getJSON(t, ts.URL+"/api/multiply?a=4&b=5")
		assert.EqualValues(t, 20, body["result"])

		_, body = getJSON(t, ts.URL+"/api/multiply?a=0.5&b=3")
		assert.EqualValues(t, 1.5, body["result"])
	})

	t.Run("Should check parity", func(t *testing.T) {
		_, body := getJSON(t, ts.URL+"/api/is-even?n=10")
		assert.Equal(t, true, body["even"])

		_, body = getJSON(t, ts.URL+"/api/is-even?n=-3")
		assert.Equal(t, false, body["even"])
		assert.EqualValues(t, -3, body["n"])
	})

	t.Run("Should read integers with leading zeros as decimal", func(t *testing.T) {
		code, body := getJSON(t, ts.URL+"/api/is-even?n=010")
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 10, body["n"])
		assert.Equal(t, true, body["even"])

		_, body = getJSON(t, ts.URL+"/api/is-even?n=-007")
		assert.EqualValues(t, -7, body["n"])

		_, body = getJSON(t, ts.URL+"/api/random?min=010&max=010")
		assert.EqualValues(t, 10, body["result"])
	})

	t.Run("Should format dates", func(t *testing.T) {
		_, body := getJSON(t, ts.URL+"/api/date?date=2025-01-15")
		assert.Equal(t, "2025-01-15", body["date"])

		_, body = getJSON(t, ts.URL+"/api/date?date=2025-01-15T23:30:00Z")
		assert.Equal(t, "2025-01-15", body["date"])

		_, body = getJSON(t, ts.URL+"/api/date")
		assert.Equal(t, time.Now().UTC().Format(time.DateOnly), body["date"])
	})

	t.Run("Should draw random numbers within the range", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			_, body := getJSON(t, ts.URL+"/api/random?min=1&max=5")
			n, ok := body["result"].(float64)
			require.True(t, ok)
			assert.GreaterOrEqual(t, n, 1.0)
			assert.LessOrEqual(t, n, 5.0)
		}

		_, body := getJSON(t, ts.URL+"/api/random")
		n := body["result"].(float64)
		assert.GreaterOrEqual(t, n, 1.0)
		assert.LessOrEqual(t, n, 100.0)
	})

	t.Run("Should reject bad input", func(t *testing.T) {
		cases := map[string]string{
			"/api/add?a=2":                  "INVALID_INPUT",
			"/api/add?a=x&b=1":              "INVALID_INPUT",
			"/api/multiply?a=NaN&b=1":       "INVALID_INPUT",
			"/api/add?a=1e308&b=1e308":      "INVALID_INPUT",
			"/api/multiply?a=1e200&b=1e200": "INVALID_INPUT",
			"/api/is-even?n=0x10":           "INVALID_INPUT",
			"/api/is-even?n=1_000":          "INVALID_INPUT",
			"/api/is-even":                  "INVALID_INPUT",
			"/api/is-even?n=2.5":            "INVALID_INPUT",
			"/api/date?date=yesterday":      "INVALID_INPUT",
			"/api/random?min=a":             "INVALID_INPUT",
			"/api/random?min=5&max=1":       "INVALID_RANGE",
		}
		for path, code := range cases {
			status, body := getJSON(t, ts.URL+path)
			assert.Equal(t, http.StatusBadRequest, status, path)
			assert.Equal(t, code, body["code"], path)
			assert.NotEmpty(t, body["error"], path)
		}
	})

	t.Run("Should set a request id", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Len(t, resp.Header.Get(server.RequestIDHeader), 36)
	})

	t.Run("Should answer CORS preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/add", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("Should serve the demo page", func(t *testing.T) {
		for _, path := range []string{"/", "/demo.html"} {
			resp, err := http.Get(ts.URL + path)
			require.NoError(t, err)
			page, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
			assert.Contains(t, string(page), "LocalStack CI/CD Workshop")
		}
	})
}

func TestRouterRateLimit(t *testing.T) {
	t.Run("Should throttle a client past its burst", func(t *testing.T) {
		lm := server.NewLimiterMap(1, 2, time.Minute)
		defer lm.Stop()
		ts := newTestServer(t, lm)

		for i := 0; i < 2; i++ {
			code, _ := getJSON(t, ts.URL+"/healthz")
			assert.Equal(t, http.StatusOK, code)
		}
		code, body := getJSON(t, ts.URL+"/healthz")
		assert.Equal(t, http.StatusTooManyRequests, code)
		assert.Equal(t, "rate limited", body["error"])
	})
	t.Run("Should not let a forged X-Forwarded-For dodge the limit", func(t *testing.T) {
		lm := server.NewLimiterMap(1, 1, time.Minute)
		defer lm.Stop()
		ts := newTestServer(t, lm)

		assert.Equal(t, http.StatusOK, getWithForwardedFor(t, ts.URL+"/healthz", "203.0.113.1"))
		assert.Equal(t, http.StatusTooManyRequests, getWithForwardedFor(t, ts.URL+"/healthz", "203.0.113.2"))
	})

	t.Run("Should key on X-Forwarded-For behind a trusted proxy", func(t *testing.T) {
		lm := server.NewLimiterMap(1, 1, time.Minute)
		defer lm.Stop()
		ts := newTestServer(t, lm, func(c *config.Config) { c.Server.TrustProxy = true })

		assert.Equal(t, http.StatusOK, getWithForwardedFor(t, ts.URL+"/healthz", "203.0.113.1"))
		assert.Equal(t, http.StatusOK, getWithForwardedFor(t, ts.URL+"/healthz", "203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, getWithForwardedFor(t, ts.URL+"/healthz", "203.0.113.1"))
	})
}

func getWithForwardedFor(t *testing.T, url, ip string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("X-Forwarded-For", ip)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}
