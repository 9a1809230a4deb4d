package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/jobtrail/jobtrail/internal/db"
	"github.com/jobtrail/jobtrail/internal/store"
)

type testDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Owner    string `json:"owner,omitempty"`
	Archived bool   `json:"archived"`
	Count    int    `json:"count,omitempty"`
}

func newSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	d, err := db.New(ctx, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS documents (collection TEXT NOT NULL, id TEXT NOT NULL, doc TEXT NOT NULL, PRIMARY KEY (collection, id))`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return store.NewSQLite(d)
}

// runStoreTests exercises the Store contract both implementations must
// satisfy.
func runStoreTests(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("GetAbsentReturnsNil", func(t *testing.T) {
		raw, err := s.Get(ctx, "applications", uuid.NewString())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if raw != nil {
			t.Fatalf("expected nil raw for absent id, got %s", raw)
		}
	})

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		id := uuid.NewString()
		in := testDoc{ID: id, Name: "first", Owner: "u1"}
		if err := s.Put(ctx, "applications", id, in); err != nil {
			t.Fatalf("put: %v", err)
		}
		raw, err := s.Get(ctx, "applications", id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		var out testDoc
		if err := store.Decode(raw, &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out != in {
			t.Fatalf("round trip mismatch: %+v != %+v", out, in)
		}
	})

	t.Run("PutReplacesDocument", func(t *testing.T) {
		id := uuid.NewString()
		if err := s.Put(ctx, "applications", id, testDoc{ID: id, Name: "v1", Count: 2}); err != nil {
			t.Fatalf("put v1: %v", err)
		}
		if err := s.Put(ctx, "applications", id, testDoc{ID: id, Name: "v2"}); err != nil {
			t.Fatalf("put v2: %v", err)
		}
		raw, _ := s.Get(ctx, "applications", id)
		var out testDoc
		if err := store.Decode(raw, &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.Name != "v2" || out.Count != 0 {
			t.Fatalf("expected full replacement, got %+v", out)
		}
	})

	t.Run("FindByFieldEquality", func(t *testing.T) {
		owner := uuid.NewString()
		for i := 0; i < 3; i++ {
			id := uuid.NewString()
			doc := testDoc{ID: id, Name: "n", Owner: owner}
			if i == 2 {
				doc.Owner = "someone-else"
			}
			if err := s.Put(ctx, "applications", id, doc); err != nil {
				t.Fatalf("put: %v", err)
			}
		}
		raws, err := s.Find(ctx, "applications", store.Filter{"owner": owner})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(raws) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(raws))
		}
	})

	t.Run("FindBoolFilter", func(t *testing.T) {
		coll := "jobs_" + uuid.NewString()[:8]
		activeID := uuid.NewString()
		if err := s.Put(ctx, coll, activeID, testDoc{ID: activeID, Name: "active", Archived: false}); err != nil {
			t.Fatalf("put: %v", err)
		}
		archivedID := uuid.NewString()
		if err := s.Put(ctx, coll, archivedID, testDoc{ID: archivedID, Name: "old", Archived: true}); err != nil {
			t.Fatalf("put: %v", err)
		}
		raws, err := s.Find(ctx, coll, store.Filter{"archived": false})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(raws) != 1 {
			t.Fatalf("expected 1 active doc, got %d", len(raws))
		}
		var out testDoc
		if err := store.Decode(raws[0], &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.ID != activeID {
			t.Fatalf("expected active doc, got %+v", out)
		}
	})

	t.Run("FindAbsentFieldDoesNotMatch", func(t *testing.T) {
		coll := "apps_" + uuid.NewString()[:8]
		id := uuid.NewString()
		// Owner has omitempty so the field is absent from the stored doc
		if err := s.Put(ctx, coll, id, testDoc{ID: id, Name: "n"}); err != nil {
			t.Fatalf("put: %v", err)
		}
		raws, err := s.Find(ctx, coll, store.Filter{"owner": "u1"})
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(raws) != 0 {
			t.Fatalf("expected no matches on absent field, got %d", len(raws))
		}
	})

	t.Run("PatchMergesFields", func(t *testing.T) {
		id := uuid.NewString()
		if err := s.Put(ctx, "applications", id, testDoc{ID: id, Name: "before", Owner: "u1", Count: 3}); err != nil {
			t.Fatalf("put: %v", err)
		}
		err := s.Patch(ctx, "applications", id, map[string]any{
			"name":  "after",
			"owner": nil, // nil fields are stripped, not written
		})
		if err != nil {
			t.Fatalf("patch: %v", err)
		}
		raw, _ := s.Get(ctx, "applications", id)
		var out testDoc
		if err := store.Decode(raw, &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.Name != "after" {
			t.Fatalf("expected name patched, got %q", out.Name)
		}
		if out.Owner != "u1" || out.Count != 3 {
			t.Fatalf("expected untouched fields preserved, got %+v", out)
		}
	})

	t.Run("PatchAbsentReturnsErrNoDocument", func(t *testing.T) {
		err := s.Patch(ctx, "applications", uuid.NewString(), map[string]any{"name": "x"})
		if !errors.Is(err, store.ErrNoDocument) {
			t.Fatalf("expected ErrNoDocument, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		id := uuid.NewString()
		if err := s.Put(ctx, "applications", id, testDoc{ID: id, Name: "n"}); err != nil {
			t.Fatalf("put: %v", err)
		}
		if err := s.Delete(ctx, "applications", id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		raw, err := s.Get(ctx, "applications", id)
		if err != nil || raw != nil {
			t.Fatalf("expected doc gone, got %s err=%v", raw, err)
		}
		if err := s.Delete(ctx, "applications", id); !errors.Is(err, store.ErrNoDocument) {
			t.Fatalf("expected ErrNoDocument on second delete, got %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, store.NewMemory())
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, newSQLiteStore(t))
}

func TestSQLiteStore_RejectsUnsafeFilterField(t *testing.T) {
	s := newSQLiteStore(t)
	_, err := s.Find(context.Background(), "applications", store.Filter{"name') --": "x"})
	if err == nil {
		t.Fatalf("expected error for unsafe filter field")
	}
}

func TestCleanFields(t *testing.T) {
	in := map[string]any{"a": 1, "b": nil, "c": "x"}
	out := store.CleanFields(in)
	if len(out) != 2 {
		t.Fatalf("expected nil entries dropped, got %+v", out)
	}
	if _, ok := out["b"]; ok {
		t.Fatalf("nil entry survived: %+v", out)
	}
}

func TestDecode_NilRawIsNoop(t *testing.T) {
	var out testDoc
	if err := store.Decode(nil, &out); err != nil {
		t.Fatalf("decode nil: %v", err)
	}
	if out != (testDoc{}) {
		t.Fatalf("expected untouched out, got %+v", out)
	}
	if err := store.Decode(json.RawMessage(`{"name":"n"}`), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Name != "n" {
		t.Fatalf("expected decoded name, got %+v", out)
	}
}
