// Package inventory is the single write path that creates an item together
// with its activity entry.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/shramba/internal/metrics"
	"github.com/erazemk/shramba/internal/model"
)

// ItemCreator creates validated items.
type ItemCreator interface {
	CreateItem(ctx context.Context, in model.NewItem) (*model.Item, error)
}

// ActivityLog appends activity entries and purges broken ones.
type ActivityLog interface {
	Append(ctx context.Context, in model.NewActivity) (*model.Activity, error)
	ReconcileBroken(ctx context.Context) (int64, error)
}

// Service composes the item catalog and the activity ledger.
type Service struct {
	items   ItemCreator
	log     ActivityLog
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService returns a Service. m may be nil.
func NewService(items ItemCreator, log ActivityLog, m *metrics.Metrics) *Service {
	return &Service{items: items, log: log, metrics: m, now: time.Now}
}

// Recorded is the outcome of RecordNewItem. Item is always set. When the
// activity entry could not be written, Activity is nil and LogErr says why;
// the item stays created either way.
type Recorded struct {
	Item     *model.Item
	Activity *model.Activity
	LogErr   error
}

// RecordNewItem creates an item and then logs it. A failure to create the
// item is returned as is and nothing is logged. A failure to log does not
// undo the item: it is reported in Recorded.LogErr.
func (s *Service) RecordNewItem(ctx context.Context, in model.NewItem) (*Recorded, error) {
	item, err := s.items.CreateItem(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncItemsCreated()
	}

	rec := &Recorded{Item: item}
	rec.Activity, rec.LogErr = s.log.Append(ctx, model.NewActivity{
		TakenBy:  item.Actor(),
		ItemName: item.Name,
		Date:     s.now(),
		Message:  describe(item),
	})
	if rec.LogErr != nil {
		slog.ErrorContext(ctx, "item created without activity entry",
			"item_id", item.ID, "item", item.Name, "error", rec.LogErr)
		if s.metrics != nil {
			s.metrics.IncActivityLogFailures()
		}
		return rec, nil
	}

	if s.metrics != nil {
		s.metrics.IncActivitiesAppended()
	}
	return rec, nil
}

// AppendManualActivity records an action not tied to creating an item,
// such as taking an item someone else added. It is not checked against
// the catalog.
func (s *Service) AppendManualActivity(ctx context.Context, in model.NewActivity) (*model.Activity, error) {
	a, err := s.log.Append(ctx, in)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncActivitiesAppended()
	}
	return a, nil
}

// ReconcileLedger purges broken activity entries and returns how many
// were removed.
func (s *Service) ReconcileLedger(ctx context.Context) (int64, error) {
	n, err := s.log.ReconcileBroken(ctx)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "activity ledger reconciled", "deleted", n)
	if s.metrics != nil {
		s.metrics.AddActivitiesPurged(n)
	}
	return n, nil
}

func describe(item *model.Item) string {
	if item.TakenBy != nil && *item.TakenBy != "" {
		return fmt.Sprintf("%s took %q", *item.TakenBy, item.Name)
	}
	return fmt.Sprintf("%s added %q", item.AddedBy, item.Name)
}
