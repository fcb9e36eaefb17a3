package handler

import (
	"net/http"

	"nutri-auth/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CheckEmailHandler handles POST /api/auth/check-email.
type CheckEmailHandler struct {
	uc *usecase.CheckEmail
}

// NewCheckEmailHandler creates a new check-email handler.
func NewCheckEmailHandler(uc *usecase.CheckEmail) *CheckEmailHandler {
	return &CheckEmailHandler{uc: uc}
}

type checkEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// checkEmailResponse reports existence; userId is null when absent.
type checkEmailResponse struct {
	OK     bool    `json:"ok"`
	Exists bool    `json:"exists"`
	UserID *string `json:"userId"`
}

// Handle processes the check-email endpoint.
func (h *CheckEmailHandler) Handle(c echo.Context) error {
	var req checkEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Message: "invalid request body",
			Detail:  err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Message: "missing fields: email is required",
			Detail:  err.Error(),
		})
	}

	result, err := h.uc.Execute(c.Request().Context(), req.Email)
	if err != nil {
		return writeError(c, err)
	}

	resp := checkEmailResponse{OK: true, Exists: result.Exists}
	if result.Exists {
		resp.UserID = &result.UserID
	}
	return c.JSON(http.StatusOK, resp)
}
