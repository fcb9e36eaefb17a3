package handler

import (
	"encoding/json"
	"net/http"

	"nutri-auth/internal/usecase"

	"github.com/labstack/echo/v4"
)

// LoginHandler handles POST /api/auth/login.
type LoginHandler struct {
	uc *usecase.LoginUser
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(uc *usecase.LoginUser) *LoginHandler {
	return &LoginHandler{uc: uc}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginResponse carries the provider's session and user JSON untransformed.
type loginResponse struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message"`
	Session json.RawMessage `json:"session"`
	User    json.RawMessage `json:"user"`
}

// Handle processes the login endpoint.
func (h *LoginHandler) Handle(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Message: "invalid request body",
			Detail:  err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Message: "missing fields: email and password are required",
			Detail:  err.Error(),
		})
	}

	result, err := h.uc.Execute(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		OK:      true,
		Message: "login successful",
		Session: result.Session,
		User:    result.User,
	})
}
