// Package ledger is the append-only activity log. Entries name an item and
// an actor but hold no reference to item records, so the log is a
// best-effort audit trail rather than a source of truth.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/erazemk/shramba/internal/model"
)

// Store is the record store the ledger appends to.
type Store interface {
	InsertActivity(ctx context.Context, a *model.Activity) (*model.Activity, error)
	ListActivities(ctx context.Context) ([]model.Activity, error)
	DeleteBrokenActivities(ctx context.Context) (int64, error)
}

// Ledger is the activity log.
type Ledger struct {
	store Store
	now   func() time.Time
}

// New returns a ledger backed by s.
func New(s Store) *Ledger {
	return &Ledger{store: s, now: time.Now}
}

// Append validates and appends an entry. There is no idempotency key:
// appending the same entry twice stores it twice.
func (l *Ledger) Append(ctx context.Context, in model.NewActivity) (*model.Activity, error) {
	a := &model.Activity{
		TakenBy:  strings.TrimSpace(in.TakenBy),
		ItemName: strings.TrimSpace(in.ItemName),
		Date:     in.Date,
		Message:  strings.TrimSpace(in.Message),
	}

	var v model.Validation
	v.Check(a.TakenBy != "", "takenBy")
	v.Check(a.ItemName != "", "itemName")
	if err := v.Err(); err != nil {
		return nil, err
	}
	if a.Date.IsZero() {
		a.Date = l.now()
	}

	created, err := l.store.InsertActivity(ctx, a)
	if err != nil {
		return nil, model.Unavailable("appending activity", err)
	}
	return created, nil
}

// ListRecent returns the whole log, newest first.
func (l *Ledger) ListRecent(ctx context.Context) ([]model.Activity, error) {
	activities, err := l.store.ListActivities(ctx)
	if err != nil {
		return nil, model.Unavailable("listing activities", err)
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	return activities, nil
}

// ReconcileBroken deletes entries that lack an actor or an item name and
// returns how many it removed. Well-formed entries are never touched, so it
// is safe to run while appends are in flight.
func (l *Ledger) ReconcileBroken(ctx context.Context) (int64, error) {
	n, err := l.store.DeleteBrokenActivities(ctx)
	if err != nil {
		return 0, model.Unavailable("reconciling activities", err)
	}
	return n, nil
}
