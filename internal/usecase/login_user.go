package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"nutri-auth/internal/domain"
)

var notFoundPattern = regexp.MustCompile(`(?i)not.*found|exist`)

// LoginUser signs a user in through the identity provider and classifies
// provider failures into user-facing categories.
type LoginUser struct {
	ids    domain.IdentityProvider
	logger *slog.Logger
}

// NewLoginUser creates the login usecase.
func NewLoginUser(ids domain.IdentityProvider, logger *slog.Logger) *LoginUser {
	return &LoginUser{ids: ids, logger: logger}
}

// Execute performs the password sign-in. The email is trimmed and lowercased
// before the remote call (registration does not lowercase; the asymmetry is
// deliberate). Session and user come back verbatim.
func (uc *LoginUser) Execute(ctx context.Context, email, password string) (*domain.SignInResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	normalized := strings.ToLower(strings.TrimSpace(email))

	result, err := uc.ids.SignInWithPassword(ctx, normalized, password)
	if err != nil {
		var provErr *domain.ProviderError
		if errors.As(err, &provErr) {
			category := classifySignInFailure(provErr.Message)
			uc.logger.WarnContext(ctx, "sign-in rejected",
				"category", category.Error(), "provider_status", provErr.Status)
			return nil, &domain.AuthFailure{
				Category: category,
				Detail:   provErr.Message,
				Status:   provErr.Status,
			}
		}
		return nil, err
	}

	// A success-shaped response without a session or user is still a
	// failure.
	if !domain.JSONPresent(result.Session) || !domain.JSONPresent(result.User) {
		return nil, domain.ErrSessionIncomplete
	}
	return result, nil
}

// classifySignInFailure maps the raw provider message onto a login category.
// Priority matters: "invalid" wins over "confirm", which wins over the
// not-found pattern; anything else is a generic failure.
func classifySignInFailure(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid"):
		return domain.ErrInvalidCredentials
	case strings.Contains(lower, "confirm"):
		return domain.ErrEmailNotConfirmed
	case notFoundPattern.MatchString(msg):
		return domain.ErrUserNotFound
	default:
		return domain.ErrAuthFailed
	}
}
