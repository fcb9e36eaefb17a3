package usecase

import (
	"context"
	"fmt"
	"strings"

	"nutri-auth/internal/domain"
)

// mockIdentityProvider implements domain.IdentityProvider for testing.
type mockIdentityProvider struct {
	identity    *domain.Identity
	createErr   error
	createCalls int
	lastCreated domain.NewIdentity

	signInResult *domain.SignInResult
	signInErr    error
	signInCalls  int
	lastEmail    string
	lastPassword string
}

func (m *mockIdentityProvider) CreateUser(_ context.Context, id domain.NewIdentity) (*domain.Identity, error) {
	m.createCalls++
	m.lastCreated = id
	return m.identity, m.createErr
}

func (m *mockIdentityProvider) SignInWithPassword(_ context.Context, email, password string) (*domain.SignInResult, error) {
	m.signInCalls++
	m.lastEmail = email
	m.lastPassword = password
	return m.signInResult, m.signInErr
}

// mockResolver implements domain.ReferenceResolver backed by a code map.
type mockResolver struct {
	ids   map[string]int64 // keyed "table:code"
	calls int
}

func (m *mockResolver) ResolveCode(_ context.Context, table, _, code string) (int64, error) {
	m.calls++
	id, found := m.ids[table+":"+code]
	if !found {
		return 0, &domain.ReferenceDataError{Table: table, Code: code}
	}
	return id, nil
}

// mockProfileStore implements domain.ProfileStore.
type mockProfileStore struct {
	err         error
	calls       int
	lastProfile domain.Profile
}

func (m *mockProfileStore) UpsertProfile(_ context.Context, p domain.Profile) (*domain.Profile, error) {
	m.calls++
	m.lastProfile = p
	if m.err != nil {
		return nil, m.err
	}
	stored := p
	return &stored, nil
}

// mockLister implements domain.UserLister over a fixed user set.
type mockLister struct {
	users     []domain.Identity
	err       error
	pageCalls int
	endless   bool // keep returning full pages forever
}

func (m *mockLister) ListUsers(_ context.Context, page, perPage int) ([]domain.Identity, error) {
	m.pageCalls++
	if m.err != nil {
		return nil, m.err
	}
	if m.endless {
		users := make([]domain.Identity, perPage)
		for i := range users {
			users[i] = domain.Identity{
				ID:    fmt.Sprintf("user-%d-%d", page, i),
				Email: fmt.Sprintf("user-%d-%d@example.com", page, i),
			}
		}
		return users, nil
	}

	start := (page - 1) * perPage
	if start >= len(m.users) {
		return nil, nil
	}
	end := min(start+perPage, len(m.users))
	return m.users[start:end], nil
}

// mockLookup implements domain.EmailLookup.
type mockLookup struct {
	identity *domain.Identity
	err      error
	calls    int
	lastArg  string
}

func (m *mockLookup) GetUserByEmail(_ context.Context, email string) (*domain.Identity, error) {
	m.calls++
	m.lastArg = email
	return m.identity, m.err
}

// syntheticUsers builds n users with sequential ids, none matching target.
func syntheticUsers(n int) []domain.Identity {
	users := make([]domain.Identity, n)
	for i := range users {
		users[i] = domain.Identity{
			ID:    fmt.Sprintf("user-%d", i),
			Email: strings.ToLower(fmt.Sprintf("user-%d@example.com", i)),
		}
	}
	return users
}
