package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"nutri-auth/internal/domain"
)

const profileTable = "perfiles"

// RestGateway talks to the platform's relational REST API. Implements
// domain.ReferenceResolver and domain.ProfileStore.
type RestGateway struct {
	restClient
}

// NewRestGateway creates a data gateway for the given project URL.
func NewRestGateway(baseURL, serviceKey string, timeout time.Duration) *RestGateway {
	return &RestGateway{restClient: newRESTClient(baseURL, serviceKey, timeout)}
}

// ResolveCode selects the single row of table whose codigo column equals
// code and returns its idColumn value. A missing row is a
// *domain.ReferenceDataError, not a nil dereference.
func (g *RestGateway) ResolveCode(ctx context.Context, table, idColumn, code string) (int64, error) {
	query := url.Values{}
	query.Set("select", idColumn)
	query.Set("codigo", "eq."+code)

	status, body, err := g.do(ctx, http.MethodGet, "/rest/v1/"+table, query, nil, nil)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, &domain.ReferenceDataError{
			Table: table,
			Code:  code,
			Err:   fmt.Errorf("provider status %d: %s", status, providerMessage(status, body)),
		}
	}

	var rows []map[string]int64
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, &domain.ReferenceDataError{Table: table, Code: code, Err: err}
	}
	if len(rows) == 0 {
		return 0, &domain.ReferenceDataError{Table: table, Code: code}
	}

	id, ok := rows[0][idColumn]
	if !ok {
		return 0, &domain.ReferenceDataError{
			Table: table,
			Code:  code,
			Err:   fmt.Errorf("row carries no %s column", idColumn),
		}
	}
	return id, nil
}

// UpsertProfile writes a profile row, replacing any existing row with the
// same id, and returns the stored representation.
func (g *RestGateway) UpsertProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	headers := http.Header{}
	headers.Set("Prefer", "resolution=merge-duplicates,return=representation")

	status, body, err := g.do(ctx, http.MethodPost, "/rest/v1/"+profileTable, nil, p, headers)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: %s", domain.ErrProfileUpsert, providerMessage(status, body))
	}

	// return=representation yields the written rows as an array; tolerate a
	// bare object as well.
	var rows []domain.Profile
	if err := json.Unmarshal(body, &rows); err == nil && len(rows) > 0 {
		return &rows[0], nil
	}
	var row domain.Profile
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("%w: decoding representation: %w", domain.ErrProfileUpsert, err)
	}
	return &row, nil
}
