package main

import (
	"strings"

	"github.com/gofrs/uuid"
)

var _ UIDHandler = (*IDsHandler)(nil)

// UIDHandler hands out and checks identifiers of a single kind.
type UIDHandler interface {
	Generate() string
	IsValid(id string) bool
}

// IDsHandler builds `<prefix>:<uuid v4>` identifiers, like `r:6ba7b810-...`
// for request ids.
type IDsHandler struct {
	prefix string
}

func NewIDsHandler(prefix string) *IDsHandler {
	return &IDsHandler{prefix: prefix + ":"}
}

// Generate returns a fresh prefixed identifier. It falls back to the
// bare prefix followed by the nil uuid if the random source fails.
func (idh *IDsHandler) Generate() string {
	id, err := uuid.NewV4()
	if err != nil {
		return idh.prefix + uuid.Nil.String()
	}
	return idh.prefix + id.String()
}

// IsValid reports whether id carries the handler prefix followed by
// a version 4 uuid. Identifiers from other sources are rejected.
func (idh *IDsHandler) IsValid(id string) bool {
	raw, found := strings.CutPrefix(id, idh.prefix)
	if !found {
		return false
	}
	u, err := uuid.FromString(raw)
	return err == nil && u.Version() == uuid.V4
}
