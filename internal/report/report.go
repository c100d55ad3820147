// Package report derives read-only views from the item catalog: monthly
// spending and items about to expire.
package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/shramba/internal/model"
)

// ExpiringWindow is how far ahead ExpiringSoon looks, inclusive.
const ExpiringWindow = 3 * 24 * time.Hour

// ItemQuerier is the part of the catalog reports are computed from.
type ItemQuerier interface {
	ListByPurchaseRange(ctx context.Context, start, end time.Time) ([]model.Item, error)
	ListExpiringWithin(ctx context.Context, from time.Time, window time.Duration) ([]model.Item, error)
}

// Engine computes reports.
type Engine struct {
	items ItemQuerier
	loc   *time.Location
}

// NewEngine returns an Engine. Calendar months are taken in loc; a nil loc
// means the process's local time zone.
func NewEngine(items ItemQuerier, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{items: items, loc: loc}
}

// Summary is the spending over one calendar month.
type Summary struct {
	Label      string    `json:"month"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	TotalItems int       `json:"totalItems"`
	TotalSpent float64   `json:"totalSpent"`
}

// SpendingSummary counts and sums the items bought in the given month.
// Prices are summed as-is with no rounding.
func (e *Engine) SpendingSummary(ctx context.Context, month, year int) (*Summary, error) {
	var v model.Validation
	v.Check(month >= 1 && month <= 12, "month")
	v.Check(year >= 1 && year <= 9999, "year")
	if err := v.Err(); err != nil {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, e.loc)
	// time.Date normalizes month 13 to January of the next year.
	end := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, e.loc)

	items, err := e.items.ListByPurchaseRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Label:      fmt.Sprintf("%s %d", start.Month(), year),
		From:       start,
		To:         end,
		TotalItems: len(items),
	}
	for _, item := range items {
		s.TotalSpent += item.Price
	}
	return s, nil
}

// ExpiringSoon returns the items expiring between now and ExpiringWindow
// later, both ends included, soonest first.
func (e *Engine) ExpiringSoon(ctx context.Context, now time.Time) ([]model.Item, error) {
	return e.items.ListExpiringWithin(ctx, now, ExpiringWindow)
}

// Overview is the dashboard view: what is about to expire and what the
// current month has cost so far.
type Overview struct {
	ExpiringSoon []model.Item `json:"expiringSoon"`
	ThisMonth    *Summary     `json:"thisMonth"`
}

// Overview computes ExpiringSoon and the current month's SpendingSummary
// concurrently. The first failure cancels the other query.
func (e *Engine) Overview(ctx context.Context, now time.Time) (*Overview, error) {
	g, ctx := errgroup.WithContext(ctx)
	o := &Overview{}

	g.Go(func() error {
		items, err := e.ExpiringSoon(ctx, now)
		if err != nil {
			return err
		}
		o.ExpiringSoon = items
		return nil
	})

	local := now.In(e.loc)
	g.Go(func() error {
		s, err := e.SpendingSummary(ctx, int(local.Month()), local.Year())
		if err != nil {
			return err
		}
		o.ThisMonth = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return o, nil
}
