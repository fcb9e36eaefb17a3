package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// Identity is an account record owned by the auth platform. This service
// references identities by id and never stores them.
type Identity struct {
	ID    string
	Email string
}

// NewIdentity carries the fields sent to the platform when an identity is
// created.
type NewIdentity struct {
	Email       string
	Password    string
	DisplayName string
}

// SignInResult holds a successful password grant. Session and User are the
// provider's JSON, handed back to the caller verbatim.
type SignInResult struct {
	Session json.RawMessage
	User    json.RawMessage
}

// Profile is the application row keyed by identity id in the perfiles table.
// Column names are part of the external data model.
type Profile struct {
	ID            string    `json:"id"`
	NombreUsuario string    `json:"nombre_usuario"`
	IDRol         int64     `json:"id_rol"`
	IDPreferencia int64     `json:"id_preferencia"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

var jsonNull = []byte("null")

// JSONPresent reports whether a raw JSON value carries actual content.
func JSONPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
