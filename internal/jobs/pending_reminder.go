// Package jobs holds background loops started by the server.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"crewhub/internal/models"
)

const reminderBatch = 50

// StalePendingLister finds requests that have waited too long for a decision.
type StalePendingLister interface {
	ListStalePendingEditRequests(ctx context.Context, cutoff time.Time, limit int) ([]models.EditRequest, error)
}

// DigestSender delivers the reminder to admins.
type DigestSender interface {
	PendingDigest(ctx context.Context, reqs []models.EditRequest)
}

// PendingReminder periodically reminds admins of stale pending requests.
type PendingReminder struct {
	store    StalePendingLister
	sender   DigestSender
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time

	// reminded records when each request last appeared in a digest. Only
	// the Start goroutine touches it.
	reminded map[uuid.UUID]time.Time
}

// NewPendingReminder creates a new reminder loop.
func NewPendingReminder(store StalePendingLister, sender DigestSender, interval, maxAge time.Duration) *PendingReminder {
	return &PendingReminder{
		store:    store,
		sender:   sender,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
		reminded: map[uuid.UUID]time.Time{},
	}
}

// Start runs the loop until ctx is cancelled.
func (r *PendingReminder) Start(ctx context.Context) {
	slog.Info("pending reminder started", "interval", r.interval, "max_age", r.maxAge)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("pending reminder stopped")
			return
		case <-ticker.C:
			r.remind(ctx)
		}
	}
}

// remind sends one digest covering requests older than maxAge. A request is
// repeated at most once per maxAge, however short the interval.
func (r *PendingReminder) remind(ctx context.Context) {
	now := r.now()
	reqs, err := r.store.ListStalePendingEditRequests(ctx, now.Add(-r.maxAge), reminderBatch)
	if err != nil {
		slog.Error("pending reminder: failed to list stale requests", "error", err)
		return
	}

	stale := make(map[uuid.UUID]bool, len(reqs))
	var due []models.EditRequest
	for _, req := range reqs {
		stale[req.ID] = true
		if last, ok := r.reminded[req.ID]; ok && now.Sub(last) < r.maxAge {
			continue
		}
		due = append(due, req)
	}

	// Decided or cancelled requests drop out of the stale list.
	for id := range r.reminded {
		if !stale[id] {
			delete(r.reminded, id)
		}
	}

	if len(due) == 0 {
		return
	}

	slog.Info("pending reminder: stale requests found", "count", len(due))
	r.sender.PendingDigest(ctx, due)
	for _, req := range due {
		r.reminded[req.ID] = now
	}
}
