package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nutri-auth/internal/domain"
)

// AuthGateway talks to the platform's auth API with the service-role key.
// Implements domain.IdentityProvider, domain.UserLister and
// domain.EmailLookup.
type AuthGateway struct {
	restClient
}

// NewAuthGateway creates an auth gateway for the given project URL.
func NewAuthGateway(baseURL, serviceKey string, timeout time.Duration) *AuthGateway {
	return &AuthGateway{restClient: newRESTClient(baseURL, serviceKey, timeout)}
}

// identityPayload is the subset of the provider's user object consumed here.
type identityPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CreateUser creates an identity through the admin API. The display name is
// stored as user metadata.
func (g *AuthGateway) CreateUser(ctx context.Context, id domain.NewIdentity) (*domain.Identity, error) {
	payload := map[string]any{
		"email":    id.Email,
		"password": id.Password,
		"user_metadata": map[string]any{
			"name": id.DisplayName,
		},
	}

	status, body, err := g.do(ctx, http.MethodPost, "/auth/v1/admin/users", nil, payload, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: %s", domain.ErrIdentityCreation, providerMessage(status, body))
	}

	identity := extractIdentity(body)
	if identity == nil || identity.ID == "" {
		return nil, fmt.Errorf("%w: response carried no user id", domain.ErrIdentityCreation)
	}
	if identity.Email == "" {
		identity.Email = id.Email
	}
	return identity, nil
}

// extractIdentity pulls the created user out of whichever nesting the
// provider used: the user object at the top level, under "user", under
// "data.user", or as a bare "data" object. The response shape is not stable
// across provider versions.
func extractIdentity(body []byte) *domain.Identity {
	var envelope struct {
		ID    string           `json:"id"`
		Email string           `json:"email"`
		User  *identityPayload `json:"user"`
		Data  json.RawMessage  `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}

	if envelope.ID != "" {
		return &domain.Identity{ID: envelope.ID, Email: envelope.Email}
	}
	if envelope.User != nil && envelope.User.ID != "" {
		return &domain.Identity{ID: envelope.User.ID, Email: envelope.User.Email}
	}
	if domain.JSONPresent(envelope.Data) {
		return extractIdentity(envelope.Data)
	}
	return nil
}

// SignInWithPassword exchanges credentials for a session via the password
// grant. Non-2xx responses come back as *domain.ProviderError with the raw
// message preserved for classification.
func (g *AuthGateway) SignInWithPassword(ctx context.Context, email, password string) (*domain.SignInResult, error) {
	query := url.Values{}
	query.Set("grant_type", "password")

	payload := map[string]string{"email": email, "password": password}

	status, body, err := g.do(ctx, http.MethodPost, "/auth/v1/token", query, payload, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &domain.ProviderError{Status: status, Message: providerMessage(status, body)}
	}

	var grant struct {
		AccessToken string          `json:"access_token"`
		User        json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, fmt.Errorf("%w: decoding grant response: %w", domain.ErrUpstreamUnavailable, err)
	}

	// The token response is the session. Leave fields empty when the
	// success-shaped response is incomplete; the usecase decides what that
	// means.
	result := &domain.SignInResult{}
	if grant.AccessToken != "" {
		result.Session = json.RawMessage(body)
	}
	if domain.JSONPresent(grant.User) {
		result.User = grant.User
	}
	return result, nil
}

// ListUsers fetches one page of platform users through the admin API.
func (g *AuthGateway) ListUsers(ctx context.Context, page, perPage int) ([]domain.Identity, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	status, body, err := g.do(ctx, http.MethodGet, "/auth/v1/admin/users", query, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmailLookup, providerMessage(status, body))
	}

	users, err := decodeUserList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding user list: %w", domain.ErrEmailLookup, err)
	}
	return users, nil
}

// decodeUserList accepts both the wrapped {"users":[...]} listing and a bare
// array.
func decodeUserList(body []byte) ([]domain.Identity, error) {
	var wrapped struct {
		Users []identityPayload `json:"users"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Users != nil {
		return toIdentities(wrapped.Users), nil
	}

	var bare []identityPayload
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	return toIdentities(bare), nil
}

func toIdentities(payloads []identityPayload) []domain.Identity {
	identities := make([]domain.Identity, 0, len(payloads))
	for _, p := range payloads {
		identities = append(identities, domain.Identity{ID: p.ID, Email: p.Email})
	}
	return identities
}

// GetUserByEmail looks an email up through the admin listing filter, keeping
// only an exact match on the normalized address. Returns (nil, nil) when the
// email is unknown to the platform.
func (g *AuthGateway) GetUserByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := url.Values{}
	query.Set("filter", email)

	status, body, err := g.do(ctx, http.MethodGet, "/auth/v1/admin/users", query, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmailLookup, providerMessage(status, body))
	}

	users, err := decodeUserList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding user list: %w", domain.ErrEmailLookup, err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return &domain.Identity{ID: u.ID, Email: u.Email}, nil
		}
	}
	return nil, nil
}
