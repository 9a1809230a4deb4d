// Package notify delivers best-effort status-change notifications. The
// dispatcher is a side channel: nothing in here may fail or roll back
// the commit that produced the event.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jobtrail/jobtrail/pkg/models"
)

// Event describes one committed status transition.
type Event struct {
	ApplicationID string        `json:"applicationId"`
	CandidateID   string        `json:"userId"`
	RecruiterID   string        `json:"recruiterId,omitempty"`
	Title         string        `json:"title"`
	Company       string        `json:"company"`
	OldStatus     models.Status `json:"oldStatus,omitempty"`
	NewStatus     models.Status `json:"newStatus"`
	ChangedBy     string        `json:"changedBy"`
	ChangedAt     time.Time     `json:"changedAt"`
}

// Notifier accepts status-change events. Implementations must be safe to
// call from request handlers; delivery happens out of band.
type Notifier interface {
	StatusChanged(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) StatusChanged(context.Context, Event) error { return nil }

// Delivery is one queued notification attempt.
type Delivery struct {
	ID          int64           `json:"id"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	NextTryAt   *time.Time      `json:"next_try_at,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
}

// Sender performs the actual delivery of one event.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

// ErrMaxAttempts indicates the delivery reached max attempts.
var ErrMaxAttempts = errors.New("max attempts reached")

// BackoffDuration returns exponential backoff duration for attempt n.
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	max := 5 * time.Minute
	if d > max {
		return max
	}
	return d
}
