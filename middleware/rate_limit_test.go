package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doLimitedRequest(t *testing.T, rl *RateLimiter, ip string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Real-IP", ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return rl.Middleware()(next)(c)
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.NoError(t, doLimitedRequest(t, rl, "10.0.0.1"))
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)

	require.NoError(t, doLimitedRequest(t, rl, "10.0.0.1"))
	require.NoError(t, doLimitedRequest(t, rl, "10.0.0.1"))

	err := doLimitedRequest(t, rl, "10.0.0.1")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
}

func TestRateLimiter_TracksIPsIndependently(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)

	require.NoError(t, doLimitedRequest(t, rl, "10.0.0.1"))
	assert.Error(t, doLimitedRequest(t, rl, "10.0.0.1"))
	assert.NoError(t, doLimitedRequest(t, rl, "10.0.0.2"), "a second client gets its own budget")
}

func TestRateLimiter_SetsRetryAfter(t *testing.T) {
	rl := NewRateLimiter(0.5, 1)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := rl.Middleware()
	require.NoError(t, mw(next)(c))

	req2 := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req2.Header.Set("X-Real-IP", "10.0.0.1")
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)

	err := mw(next)(c2)
	require.Error(t, err)
	assert.Equal(t, "2", rec2.Header().Get("Retry-After"))
}
