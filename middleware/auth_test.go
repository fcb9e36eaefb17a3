package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-key"

func signTestToken(t *testing.T, secret string, claims AccessClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runRequireAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := RequireAuth(testSecret)(next)(c)
	return rec, c, err
}

func TestRequireAuth_ValidToken(t *testing.T) {
	token := signTestToken(t, testSecret, AccessClaims{
		Email: "ada@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "id-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	rec, c, err := runRequireAuth(t, "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	claims, ok := c.Get(ClaimsKey).(*AccessClaims)
	require.True(t, ok, "claims stored in context")
	assert.Equal(t, "id-1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	_, _, err := runRequireAuth(t, "")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuth_NotBearer(t *testing.T) {
	_, _, err := runRequireAuth(t, "Basic dXNlcjpwYXNz")

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	token := signTestToken(t, "another-secret", AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "id-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, _, err := runRequireAuth(t, "Bearer "+token)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	token := signTestToken(t, testSecret, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "id-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, _, err := runRequireAuth(t, "Bearer "+token)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireAuth_RejectsUnsignedAlgorithm(t *testing.T) {
	// alg=none tokens must never verify, whatever the payload says.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "id-1"},
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, mwErr := runRequireAuth(t, "Bearer "+unsigned)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, mwErr, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
