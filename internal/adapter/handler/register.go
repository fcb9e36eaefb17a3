package handler

import (
	"net/http"

	"nutri-auth/internal/domain"
	"nutri-auth/internal/usecase"

	"github.com/labstack/echo/v4"
)

// RegisterHandler handles POST /api/auth/register.
type RegisterHandler struct {
	uc *usecase.RegisterUser
}

// NewRegisterHandler creates a new register handler.
func NewRegisterHandler(uc *usecase.RegisterUser) *RegisterHandler {
	return &RegisterHandler{uc: uc}
}

// registerRequest mirrors the public API body; the field names are part of
// the wire contract.
type registerRequest struct {
	Email             string `json:"email" validate:"required"`
	Password          string `json:"password" validate:"required"`
	NombreUsuario     string `json:"nombre_usuario" validate:"required"`
	CodigoPreferencia string `json:"codigo_preferencia" validate:"required"`
	CodigoRol         string `json:"codigo_rol" validate:"required"`
}

// registeredUser is the user object in the register response.
type registeredUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	NombreUsuario string `json:"nombre_usuario"`
}

// registerResponse is the 201 body.
type registerResponse struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message"`
	User    registeredUser `json:"user"`
	Profile domain.Profile `json:"profile"`
}

// Handle processes the register endpoint.
func (h *RegisterHandler) Handle(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Message: "invalid request body",
			Detail:  err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Message: "missing fields: email, password, nombre_usuario, codigo_preferencia and codigo_rol are required",
			Detail:  err.Error(),
		})
	}

	result, err := h.uc.Execute(c.Request().Context(), usecase.RegisterInput{
		Email:             req.Email,
		Password:          req.Password,
		NombreUsuario:     req.NombreUsuario,
		CodigoPreferencia: req.CodigoPreferencia,
		CodigoRol:         req.CodigoRol,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, registerResponse{
		OK:      true,
		Message: "user created",
		User: registeredUser{
			ID:            result.Identity.ID,
			Email:         result.Identity.Email,
			NombreUsuario: result.Profile.NombreUsuario,
		},
		Profile: result.Profile,
	})
}
