package domain

import "context"

// IdentityProvider is the auth platform capability consumed by registration
// and login.
type IdentityProvider interface {
	CreateUser(ctx context.Context, id NewIdentity) (*Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error)
}

// UserLister pages through platform users, for the email-scan fallback.
type UserLister interface {
	ListUsers(ctx context.Context, page, perPage int) ([]Identity, error)
}

// EmailLookup is the optional direct lookup-by-email capability. A nil
// identity with a nil error means the email is unknown to the platform.
type EmailLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*Identity, error)
}

// ReferenceResolver resolves a human-readable code to its numeric id in a
// fixed reference table.
type ReferenceResolver interface {
	ResolveCode(ctx context.Context, table, idColumn, code string) (int64, error)
}

// ProfileStore writes profile rows. Upsert semantics: insert-or-fully-replace
// keyed on the identity id.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, p Profile) (*Profile, error)
}
