package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"nutri-auth/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into the HTTP status and error
// envelope of the public API.
func mapDomainError(err error) (int, errorResponse) {
	var refErr *domain.ReferenceDataError
	var upsertErr *domain.ProfileUpsertError
	var authErr *domain.AuthFailure

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, errorResponse{
			Message: "missing or invalid fields",
			Detail:  err.Error(),
		}

	case errors.As(err, &refErr):
		return http.StatusBadRequest, errorResponse{
			Message: fmt.Sprintf("unknown code %q", refErr.Code),
			Detail:  refErr.Error(),
		}

	case errors.As(err, &upsertErr):
		return http.StatusInternalServerError, errorResponse{
			Message: "identity was created, profile was not",
			Detail:  fmt.Sprintf("identity id %s: %v", upsertErr.IdentityID, upsertErr.Err),
		}

	case errors.Is(err, domain.ErrIdentityCreation):
		return http.StatusInternalServerError, errorResponse{
			Message: "could not create user",
			Detail:  err.Error(),
		}

	case errors.As(err, &authErr):
		return http.StatusUnauthorized, errorResponse{
			Message: loginMessage(authErr.Category),
			Detail:  authErr.Detail,
			Code:    strconv.Itoa(authErr.Status),
		}

	case errors.Is(err, domain.ErrSessionIncomplete):
		return http.StatusUnauthorized, errorResponse{
			Message: "could not create session",
			Detail:  err.Error(),
		}

	case errors.Is(err, domain.ErrEmailLookup):
		return http.StatusInternalServerError, errorResponse{
			Message: "could not query users",
			Detail:  err.Error(),
		}

	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, errorResponse{
			Message: "auth platform timed out",
			Detail:  err.Error(),
		}

	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway, errorResponse{
			Message: "auth platform unavailable",
			Detail:  err.Error(),
		}

	default:
		return http.StatusInternalServerError, errorResponse{
			Message: "internal error",
			Detail:  err.Error(),
		}
	}
}

// loginMessage renders the user-facing message for a classified login
// failure.
func loginMessage(category error) string {
	switch {
	case errors.Is(category, domain.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(category, domain.ErrEmailNotConfirmed):
		return "email not confirmed"
	case errors.Is(category, domain.ErrUserNotFound):
		return "user does not exist"
	default:
		return "could not sign in"
	}
}

// writeError renders a domain error through the mapper.
func writeError(c echo.Context, err error) error {
	status, resp := mapDomainError(err)
	return c.JSON(status, resp)
}

// ErrorHandler is the echo HTTPErrorHandler; it renders anything that
// escapes a handler in the uniform envelope so no error leaves the service
// in another shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, errorResponse{Message: fmt.Sprintf("%v", httpErr.Message)})
		return
	}
	_ = writeError(c, err)
}
