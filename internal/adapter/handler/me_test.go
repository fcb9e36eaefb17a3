package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"nutri-auth/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeHandler_WithClaims(t *testing.T) {
	h := NewMeHandler()
	c, rec := newJSONContext(t, http.MethodGet, "/api/auth/me", "")
	c.Set(middleware.ClaimsKey, &middleware.AccessClaims{
		Email: "ada@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "id-1",
		},
	})

	require.NoError(t, h.Handle(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp meResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "id-1", resp.User.ID)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "authenticated", resp.User.Role)
}

func TestMeHandler_NoClaims(t *testing.T) {
	h := NewMeHandler()
	c, rec := newJSONContext(t, http.MethodGet, "/api/auth/me", "")

	require.NoError(t, h.Handle(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
}
