package domain

import (
	"errors"
	"fmt"
)

// Input errors.
var ErrValidation = errors.New("missing or invalid input")

// Registration errors.
var (
	ErrIdentityCreation = errors.New("identity creation failed")
	ErrReferenceData    = errors.New("reference data lookup failed")
	ErrProfileUpsert    = errors.New("profile upsert failed")
)

// Login errors, derived by classifying the provider message.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrUserNotFound       = errors.New("user not found")
	ErrAuthFailed         = errors.New("sign-in failed")
	ErrSessionIncomplete  = errors.New("provider returned no session or user")
)

// Upstream errors.
var (
	ErrEmailLookup         = errors.New("email lookup failed")
	ErrUpstreamTimeout     = errors.New("upstream call timed out")
	ErrUpstreamUnavailable = errors.New("auth platform unavailable")
)

// ReferenceDataError reports a reference code that did not resolve, either
// because no row matched or because the lookup itself failed.
type ReferenceDataError struct {
	Table string
	Code  string
	Err   error
}

func (e *ReferenceDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolving code %q in %s: %v", e.Code, e.Table, e.Err)
	}
	return fmt.Sprintf("code %q not found in %s", e.Code, e.Table)
}

func (e *ReferenceDataError) Unwrap() error { return e.Err }

func (e *ReferenceDataError) Is(target error) bool { return target == ErrReferenceData }

// ProfileUpsertError reports a profile write that failed after the identity
// was already created. The identity is not rolled back; callers are told
// which id was left without a profile.
type ProfileUpsertError struct {
	IdentityID string
	Err        error
}

func (e *ProfileUpsertError) Error() string {
	return fmt.Sprintf("identity %s was created, profile was not: %v", e.IdentityID, e.Err)
}

func (e *ProfileUpsertError) Unwrap() error { return e.Err }

func (e *ProfileUpsertError) Is(target error) bool { return target == ErrProfileUpsert }

// ProviderError is a non-2xx response from the auth platform, carrying the
// raw message and status for later classification.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Status, e.Message)
}

// AuthFailure is a classified sign-in failure. Category is one of the login
// sentinels; Detail and Status preserve the raw provider response for
// diagnostics.
type AuthFailure struct {
	Category error
	Detail   string
	Status   int
}

func (e *AuthFailure) Error() string {
	return fmt.Sprintf("%v: %s", e.Category, e.Detail)
}

func (e *AuthFailure) Unwrap() error { return e.Category }
