package handler

import (
	"net/http"

	"nutri-auth/middleware"

	"github.com/labstack/echo/v4"
)

// MeHandler handles GET /api/auth/me, returning the identity carried by a
// verified access token.
type MeHandler struct{}

// NewMeHandler creates a new me handler.
func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

type meUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type meResponse struct {
	OK   bool   `json:"ok"`
	User meUser `json:"user"`
}

// Handle processes the me endpoint. RequireAuth must run first.
func (h *MeHandler) Handle(c echo.Context) error {
	claims, ok := c.Get(middleware.ClaimsKey).(*middleware.AccessClaims)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{
			Message: "authentication required",
		})
	}

	return c.JSON(http.StatusOK, meResponse{
		OK: true,
		User: meUser{
			ID:    claims.Subject,
			Email: claims.Email,
			Role:  claims.Role,
		},
	})
}
