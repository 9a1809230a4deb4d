// Package validate compiles the embedded request schemas and checks
// incoming payloads against them before they reach the engine.
package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

// Validator holds compiled JSON schemas keyed by name (the schema file
// name without extension).
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewFromFS compiles every schemas/*.json file in the given FS.
func NewFromFS(fsys fs.FS) (*Validator, error) {
	v := &Validator{cache: make(map[string]*jsonschema.Schema)}

	entries, err := fs.ReadDir(fsys, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		v.cache[name] = rs
	}
	return v, nil
}

// Check validates payload against the named schema. A nil error means
// the payload is acceptable.
func (v *Validator) Check(ctx context.Context, name string, payload []byte) error {
	v.mu.RLock()
	rs, ok := v.cache[name]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no schema named %q", name)
	}

	verrs, err := rs.ValidateBytes(ctx, payload)
	if err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, ve := range verrs {
			msgs = append(msgs, ve.Error())
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
