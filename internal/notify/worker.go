package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Queue is a persistent Notifier: StatusChanged enqueues the event and a
// worker pool delivers it via the configured Sender, retrying with
// backoff and dead-lettering on permanent failure.
type Queue struct {
	repo        *Repository
	sender      Sender
	logger      *slog.Logger
	workerCount int
	maxAttempts int
	stop        chan struct{}
	wg          sync.WaitGroup
}

var _ Notifier = (*Queue)(nil)

func NewQueue(repo *Repository, sender Sender, logger *slog.Logger, workerCount, maxAttempts int) *Queue {
	if workerCount <= 0 {
		workerCount = 2
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		repo:        repo,
		sender:      sender,
		logger:      logger,
		workerCount: workerCount,
		maxAttempts: maxAttempts,
		stop:        make(chan struct{}),
	}
}

// StatusChanged enqueues the event for asynchronous delivery.
func (q *Queue) StatusChanged(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = q.repo.Enqueue(ctx, &Delivery{Payload: b, MaxAttempts: q.maxAttempts})
	return err
}

// Start launches the worker goroutines.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workerCount; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Stop signals workers to stop and waits for them.
func (q *Queue) Stop() {
	close(q.stop)
	q.wg.Wait()
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	for {
		select {
		case <-q.stop:
			q.logger.Info("notify worker stopping", "id", id)
			return
		case <-ctx.Done():
			q.logger.Info("context canceled, notify worker exiting", "id", id)
			return
		default:
			d, err := q.repo.FetchNext(ctx)
			if err != nil {
				q.logger.Error("fetch notification", "err", err)
				time.Sleep(1 * time.Second)
				continue
			}
			if d == nil {
				time.Sleep(500 * time.Millisecond)
				continue
			}
			q.deliver(ctx, d)
		}
	}
}

func (q *Queue) deliver(ctx context.Context, d *Delivery) {
	var ev Event
	if err := json.Unmarshal(d.Payload, &ev); err != nil {
		d.Status = "failed"
		d.LastError = "bad payload: " + err.Error()
		if mvErr := q.repo.MoveToDeadLetter(ctx, d); mvErr != nil {
			q.logger.Error("move to dead letter", "err", mvErr)
		}
		return
	}

	err := q.sender.Send(ctx, ev)
	if err == nil {
		d.Status = "done"
		if upErr := q.repo.Update(ctx, d); upErr != nil {
			q.logger.Error("mark notification done", "err", upErr)
		}
		return
	}

	d.Attempts++
	d.LastError = err.Error()
	if d.Attempts >= d.MaxAttempts {
		d.Status = "failed"
		if mvErr := q.repo.MoveToDeadLetter(ctx, d); mvErr != nil {
			q.logger.Error("move to dead letter", "err", mvErr)
		}
		return
	}

	backoff := BackoffDuration(d.Attempts)
	t := time.Now().Add(backoff)
	d.NextTryAt = &t
	d.Status = "retry"
	if upErr := q.repo.Update(ctx, d); upErr != nil {
		q.logger.Error("update notification for retry", "err", upErr)
	}
}
