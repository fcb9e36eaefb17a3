package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nutri-auth/internal/domain"
)

// Reference tables consulted during registration.
const (
	preferenceTable  = "preferencias"
	preferenceColumn = "id_preferencia"
	roleTable        = "roles"
	roleColumn       = "id_rol"
)

// RegisterInput carries the five required registration fields.
type RegisterInput struct {
	Email             string
	Password          string
	NombreUsuario     string
	CodigoPreferencia string
	CodigoRol         string
}

// RegisterResult holds the created identity and the upserted profile row.
type RegisterResult struct {
	Identity domain.Identity
	Profile  domain.Profile
}

// RegisterUser orchestrates registration: create the identity, resolve the
// two reference codes, then upsert the profile row. The sequence is strictly
// ordered; each step depends on the previous one, and nothing is retried.
type RegisterUser struct {
	ids      domain.IdentityProvider
	refs     domain.ReferenceResolver
	profiles domain.ProfileStore
	now      func() time.Time
	logger   *slog.Logger
}

// NewRegisterUser creates the registration usecase.
func NewRegisterUser(ids domain.IdentityProvider, refs domain.ReferenceResolver, profiles domain.ProfileStore, logger *slog.Logger) *RegisterUser {
	return &RegisterUser{ids: ids, refs: refs, profiles: profiles, now: time.Now, logger: logger}
}

// Execute runs the registration sequence. A validation failure returns
// before any remote call. A profile-upsert failure after identity creation
// is reported with the orphaned identity id; the identity is not rolled
// back and the upsert is not retried.
func (uc *RegisterUser) Execute(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if in.Email == "" || in.Password == "" || in.NombreUsuario == "" ||
		in.CodigoPreferencia == "" || in.CodigoRol == "" {
		return nil, fmt.Errorf("%w: email, password, nombre_usuario, codigo_preferencia and codigo_rol are required", domain.ErrValidation)
	}

	// Registration keeps the caller's email casing; only surrounding
	// whitespace is dropped.
	email := strings.TrimSpace(in.Email)

	identity, err := uc.ids.CreateUser(ctx, domain.NewIdentity{
		Email:       email,
		Password:    in.Password,
		DisplayName: in.NombreUsuario,
	})
	if err != nil {
		return nil, err
	}

	idPreferencia, err := uc.refs.ResolveCode(ctx, preferenceTable, preferenceColumn, in.CodigoPreferencia)
	if err != nil {
		uc.logger.ErrorContext(ctx, "preference code did not resolve",
			"codigo_preferencia", in.CodigoPreferencia, "error", err)
		return nil, err
	}

	idRol, err := uc.refs.ResolveCode(ctx, roleTable, roleColumn, in.CodigoRol)
	if err != nil {
		uc.logger.ErrorContext(ctx, "role code did not resolve",
			"codigo_rol", in.CodigoRol, "error", err)
		return nil, err
	}

	profile, err := uc.profiles.UpsertProfile(ctx, domain.Profile{
		ID:            identity.ID,
		NombreUsuario: in.NombreUsuario,
		IDRol:         idRol,
		IDPreferencia: idPreferencia,
		FechaCreacion: uc.now().UTC(),
	})
	if err != nil {
		uc.logger.ErrorContext(ctx, "profile upsert failed after identity creation",
			"identity_id", identity.ID, "error", err)
		return nil, &domain.ProfileUpsertError{IdentityID: identity.ID, Err: err}
	}

	uc.logger.InfoContext(ctx, "user registered", "identity_id", identity.ID)

	return &RegisterResult{
		Identity: domain.Identity{ID: identity.ID, Email: email},
		Profile:  *profile,
	}, nil
}
