package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jobtrail/jobtrail/internal/db"
)

// Repository persists the delivery queue in sqlite so notifications
// survive restarts and can be retried out of band.
type Repository struct {
	db *db.DB
}

func NewRepository(d *db.DB) *Repository { return &Repository{db: d} }

// Enqueue inserts a delivery into the queue and returns the new ID.
func (r *Repository) Enqueue(ctx context.Context, d *Delivery) (int64, error) {
	if d.MaxAttempts == 0 {
		d.MaxAttempts = 5
	}
	now := time.Now().UTC().Unix()
	q := `INSERT INTO notifications(payload, status, attempts, max_attempts, created, updated) VALUES(?,?,?,?,?,?)`
	res, err := r.db.Exec(ctx, q, string(d.Payload), "queued", d.Attempts, d.MaxAttempts, now, now)
	if err != nil {
		return 0, fmt.Errorf("enqueue notification: %w", err)
	}
	return res.LastInsertId()
}

// FetchNext fetches the next delivery due for an attempt.
func (r *Repository) FetchNext(ctx context.Context) (*Delivery, error) {
	q := `SELECT id, payload, status, attempts, max_attempts, next_try_at, last_error, created, updated FROM notifications WHERE (status = 'queued' OR status = 'retry') AND (next_try_at IS NULL OR next_try_at <= ?) ORDER BY created ASC LIMIT 1`
	now := time.Now().UTC().Unix()
	row := r.db.QueryRow(ctx, q, now)
	var (
		id          int64
		payload     sql.NullString
		status      string
		attempts    int
		maxAttempts int
		nextTry     sql.NullInt64
		lastError   sql.NullString
		created     int64
		updated     int64
	)
	if err := row.Scan(&id, &payload, &status, &attempts, &maxAttempts, &nextTry, &lastError, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch next notification: %w", err)
	}
	d := &Delivery{
		ID:          id,
		Status:      status,
		Attempts:    attempts,
		MaxAttempts: maxAttempts,
		Created:     time.Unix(created, 0),
		Updated:     time.Unix(updated, 0),
	}
	if payload.Valid {
		d.Payload = json.RawMessage(payload.String)
	}
	if nextTry.Valid {
		t := time.Unix(nextTry.Int64, 0)
		d.NextTryAt = &t
	}
	if lastError.Valid {
		d.LastError = lastError.String
	}
	return d, nil
}

// Update persists status, attempts, next_try_at and last_error.
func (r *Repository) Update(ctx context.Context, d *Delivery) error {
	var nextTry any
	if d.NextTryAt != nil {
		nextTry = d.NextTryAt.Unix()
	}
	q := `UPDATE notifications SET status = ?, attempts = ?, next_try_at = ?, last_error = ?, updated = ? WHERE id = ?`
	_, err := r.db.Exec(ctx, q, d.Status, d.Attempts, nextTry, d.LastError, time.Now().UTC().Unix(), d.ID)
	return err
}

// MoveToDeadLetter moves a delivery to notification_dead_letter and
// deletes the original.
func (r *Repository) MoveToDeadLetter(ctx context.Context, d *Delivery) error {
	tx, err := r.db.GetConn().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	insert := `INSERT INTO notification_dead_letter(notification_id, payload, attempts, last_error, failed_at) VALUES(?,?,?,?,?)`
	if _, err := tx.ExecContext(ctx, insert, d.ID, string(d.Payload), d.Attempts, d.LastError, time.Now().UTC().Unix()); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, d.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
