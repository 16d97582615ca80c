package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finledger/internal/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func doRequest(e *echo.Echo, handler echo.HandlerFunc, configure func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.100:12345"
	if configure != nil {
		configure(req)
	}
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec
}

func TestIPRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	e := echo.New()
	handler := NewIPRateLimiter(1, 3).Middleware()(okHandler)

	for i := 0; i < 3; i++ {
		rec := doRequest(e, handler, nil)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d within burst", i)
	}

	rec := doRequest(e, handler, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYSTEM_006")
}

func TestIPRateLimiter_SeparateBucketsPerIP(t *testing.T) {
	e := echo.New()
	handler := NewIPRateLimiter(1, 1).Middleware()(okHandler)

	first := doRequest(e, handler, func(r *http.Request) { r.Header.Set("X-Real-IP", "10.0.0.1") })
	second := doRequest(e, handler, func(r *http.Request) { r.Header.Set("X-Real-IP", "10.0.0.2") })
	again := doRequest(e, handler, func(r *http.Request) { r.Header.Set("X-Real-IP", "10.0.0.1") })

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, http.StatusTooManyRequests, again.Code)
}

func TestIPRateLimiter_EvictIdle(t *testing.T) {
	limiter := NewIPRateLimiter(5, 10)
	now := time.Now()

	require.True(t, limiter.allow("10.0.0.1", now.Add(-10*time.Minute)))
	require.True(t, limiter.allow("10.0.0.2", now))
	require.Equal(t, 2, limiter.visitorCount())

	limiter.evictIdle(now, visitorMaxIdle)
	assert.Equal(t, 1, limiter.visitorCount())
}

func TestIPRateLimiter_RunStopsWithContext(t *testing.T) {
	limiter := NewIPRateLimiter(5, 10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		limiter.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRateLimiter_UsesSecurityConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := echo.New()
	handler := RateLimiter(ctx, config.SecurityConfig{RateLimitPerSecond: 1, RateLimitBurst: 1})(okHandler)

	assert.Equal(t, http.StatusOK, doRequest(e, handler, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(e, handler, nil).Code)
}

func TestGetIP(t *testing.T) {
	e := echo.New()
	testCases := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{name: "forwarded chain uses first hop", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, expected: "203.0.113.7"},
		{name: "real ip header", headers: map[string]string{"X-Real-IP": "198.51.100.4"}, expected: "198.51.100.4"},
		{name: "remote address", expected: "192.168.1.100"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.100:12345"
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			c := e.NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tc.expected, getIP(c))
		})
	}
}
