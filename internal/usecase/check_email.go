package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nutri-auth/internal/domain"
)

// Bounds for the fallback listing scan. The page cap guarantees termination
// against a provider that keeps returning full pages.
const (
	scanPageSize = 100
	maxScanPages = 20
)

// CheckEmailResult reports whether an email is registered and for whom.
type CheckEmailResult struct {
	Exists bool
	UserID string
}

// CheckEmail answers whether an email is already registered. When the
// provider's direct lookup capability is wired it is preferred; otherwise
// the user listing is paged through and compared in memory.
type CheckEmail struct {
	lookup domain.EmailLookup // nil when the capability is absent
	lister domain.UserLister
	logger *slog.Logger
}

// NewCheckEmail creates the email-existence usecase. lookup may be nil.
func NewCheckEmail(lookup domain.EmailLookup, lister domain.UserLister, logger *slog.Logger) *CheckEmail {
	return &CheckEmail{lookup: lookup, lister: lister, logger: logger}
}

// Execute checks the normalized email against the platform.
func (uc *CheckEmail) Execute(ctx context.Context, email string) (*CheckEmailResult, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	normalized := strings.ToLower(strings.TrimSpace(email))

	if uc.lookup != nil {
		identity, err := uc.lookup.GetUserByEmail(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if identity == nil {
			return &CheckEmailResult{}, nil
		}
		return &CheckEmailResult{Exists: true, UserID: identity.ID}, nil
	}

	for page := 1; page <= maxScanPages; page++ {
		users, err := uc.lister.ListUsers(ctx, page, scanPageSize)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if strings.ToLower(u.Email) == normalized {
				return &CheckEmailResult{Exists: true, UserID: u.ID}, nil
			}
		}
		if len(users) < scanPageSize {
			// Short page: no more users to scan.
			return &CheckEmailResult{}, nil
		}
	}

	uc.logger.WarnContext(ctx, "email scan stopped at page cap", "pages", maxScanPages)
	return &CheckEmailResult{}, nil
}
