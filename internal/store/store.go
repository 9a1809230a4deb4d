// Package store provides a generic keyed-document collection on top of
// which the typed repositories are built. Documents are JSON blobs keyed
// by a caller-supplied id and queryable by exact-match field filters.
// There are no multi-document transactions; read-modify-write sequences
// built on this interface are last-write-wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names used by the service.
const (
	Applications = "applications"
	Jobs         = "jobs"
	Users        = "users"
	History      = "application_history"
)

// ErrNoDocument is returned by Patch and Delete when the target id does
// not exist. Get and Find report absence as empty results instead.
var ErrNoDocument = errors.New("store: no such document")

// Filter matches documents whose named fields equal the given values.
type Filter map[string]any

// Store is the abstract record store the engine runs against. Concrete
// implementations: sqlite-backed (production) and in-memory (tests).
type Store interface {
	// Get returns the raw document, or nil if the id is absent.
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
	// Find returns every document matching all filter equalities.
	Find(ctx context.Context, collection string, filter Filter) ([]json.RawMessage, error)
	// Put writes the full document under id, creating or replacing it.
	// Fields with no value are stripped by JSON marshaling (omitempty).
	Put(ctx context.Context, collection, id string, doc any) error
	// Patch merges the given fields into an existing document. Nil
	// values are stripped before merging.
	Patch(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes the document.
	Delete(ctx context.Context, collection, id string) error
}

// CleanFields drops nil-valued entries, mirroring how clients strip
// undefined fields before writes.
func CleanFields(fields map[string]any) map[string]any {
	cleaned := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}

// Decode unmarshals a raw document into out, tolerating nil raw by
// leaving out untouched.
func Decode(raw json.RawMessage, out any) error {
	if raw == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
