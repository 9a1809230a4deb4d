package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jobtrail/jobtrail/internal/db"
)

// SQLiteStore keeps each collection's documents as JSON rows in a single
// table, using the JSON1 extension for field-equality filters. This
// mirrors the keyed-document semantics of the hosted store the service
// replaces: no joins, no transactions across documents.
type SQLiteStore struct {
	conn *db.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(conn *db.DB) *SQLiteStore {
	return &SQLiteStore{conn: conn}
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	row := s.conn.QueryRow(ctx, `SELECT doc FROM documents WHERE collection = ? AND id = ?`, collection, id)
	var doc string
	if err := row.Scan(&doc); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(doc), nil
}

func (s *SQLiteStore) Find(ctx context.Context, collection string, filter Filter) ([]json.RawMessage, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT doc FROM documents WHERE collection = ?`)
	args := []any{collection}
	for field, value := range filter {
		if err := checkFieldName(field); err != nil {
			return nil, err
		}
		sb.WriteString(fmt.Sprintf(` AND json_extract(doc, '$.%s') = ?`, field))
		args = append(args, filterArg(value))
	}

	rows, err := s.conn.QueryRows(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("find %s: %w", collection, err)
		}
		out = append(out, json.RawMessage(doc))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Put(ctx context.Context, collection, id string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	_, err = s.conn.Exec(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES (?, ?, ?) ON CONFLICT(collection, id) DO UPDATE SET doc = excluded.doc`,
		collection, id, string(b))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SQLiteStore) Patch(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	if raw == nil {
		return ErrNoDocument
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}
	for k, v := range CleanFields(fields) {
		doc[k] = v
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}
	res, err := s.conn.Exec(ctx, `UPDATE documents SET doc = ? WHERE collection = ? AND id = ?`, string(b), collection, id)
	if err != nil {
		return fmt.Errorf("patch %s/%s: %w", collection, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoDocument
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.conn.Exec(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoDocument
	}
	return nil
}

// checkFieldName keeps filter fields to plain identifiers since they are
// interpolated into a JSON path.
func checkFieldName(field string) error {
	if field == "" {
		return fmt.Errorf("empty filter field")
	}
	for _, r := range field {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return fmt.Errorf("invalid filter field %q", field)
		}
	}
	return nil
}

// filterArg aligns Go values with how JSON1 surfaces them: booleans are
// extracted as 0/1 integers.
func filterArg(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}
