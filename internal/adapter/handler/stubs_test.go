package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"nutri-auth/internal/domain"

	"github.com/labstack/echo/v4"
)

// Function-backed stubs for the domain ports the handlers exercise through
// their usecases.

type stubProvider struct {
	create func(domain.NewIdentity) (*domain.Identity, error)
	signIn func(email, password string) (*domain.SignInResult, error)
}

func (s *stubProvider) CreateUser(_ context.Context, id domain.NewIdentity) (*domain.Identity, error) {
	return s.create(id)
}

func (s *stubProvider) SignInWithPassword(_ context.Context, email, password string) (*domain.SignInResult, error) {
	return s.signIn(email, password)
}

type stubResolver map[string]int64 // keyed "table:code"

func (s stubResolver) ResolveCode(_ context.Context, table, _, code string) (int64, error) {
	id, found := s[table+":"+code]
	if !found {
		return 0, &domain.ReferenceDataError{Table: table, Code: code}
	}
	return id, nil
}

type stubProfiles struct {
	err error
}

func (s *stubProfiles) UpsertProfile(_ context.Context, p domain.Profile) (*domain.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	stored := p
	return &stored, nil
}

type stubLookup struct {
	identity *domain.Identity
	err      error
}

func (s *stubLookup) GetUserByEmail(context.Context, string) (*domain.Identity, error) {
	return s.identity, s.err
}

type stubLister struct {
	users []domain.Identity
}

func (s *stubLister) ListUsers(context.Context, int, int) ([]domain.Identity, error) {
	return s.users, nil
}

// newJSONContext builds an echo context for a JSON request, with the request
// validator wired the way main wires it.
func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
