// Package catalog owns item records: validation on creation, lookup by id,
// and the time-bounded queries the reports are built from.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/shramba/internal/imaging"
	"github.com/erazemk/shramba/internal/model"
)

// Store is the record store the catalog persists items in.
// GetItem returns nil without error when the item does not exist.
type Store interface {
	InsertItem(ctx context.Context, item *model.Item) (*model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	FindItems(ctx context.Context, f model.ItemFilter) ([]model.Item, error)
	SetItemImage(ctx context.Context, id int64, image []byte, mime string) error
	GetItemImage(ctx context.Context, id int64) ([]byte, string, error)
}

// Catalog is the item catalog.
type Catalog struct {
	store Store
}

// New returns a catalog backed by s.
func New(s Store) *Catalog {
	return &Catalog{store: s}
}

// CreateItem validates and stores a new item. Every missing or malformed
// field is reported in a single *model.ValidationError.
func (c *Catalog) CreateItem(ctx context.Context, in model.NewItem) (*model.Item, error) {
	item := &model.Item{
		Name:    strings.TrimSpace(in.Name),
		AddedBy: strings.TrimSpace(in.AddedBy),
	}
	if takenBy := strings.TrimSpace(in.TakenBy); takenBy != "" {
		item.TakenBy = &takenBy
	}

	var v model.Validation
	v.Check(item.Name != "", "name")
	v.Check(in.BoughtDate != nil, "boughtDate")
	v.Check(in.ExpiryDate != nil, "expiryDate")
	v.Check(in.Price != nil && *in.Price >= 0 && !math.IsInf(*in.Price, 0) && !math.IsNaN(*in.Price), "price")
	v.Check(item.AddedBy != "", "addedBy")
	if err := v.Err(); err != nil {
		return nil, err
	}
	item.BoughtDate = *in.BoughtDate
	item.ExpiryDate = *in.ExpiryDate
	item.Price = *in.Price

	created, err := c.store.InsertItem(ctx, item)
	if err != nil {
		return nil, model.Unavailable("creating item", err)
	}
	return created, nil
}

// ParseID parses a client-supplied item id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidID, raw)
	}
	return id, nil
}

// GetByID returns the item with the given id.
func (c *Catalog) GetByID(ctx context.Context, rawID string) (*model.Item, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, id)
}

func (c *Catalog) get(ctx context.Context, id int64) (*model.Item, error) {
	item, err := c.store.GetItem(ctx, id)
	if err != nil {
		return nil, model.Unavailable("getting item", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return item, nil
}

// ListAll returns every item, most recently bought first.
func (c *Catalog) ListAll(ctx context.Context) ([]model.Item, error) {
	return c.find(ctx, "listing items", model.ItemFilter{Order: model.OrderBoughtDesc})
}

// ListExpiringWithin returns items expiring in [from, from+window], soonest first.
func (c *Catalog) ListExpiringWithin(ctx context.Context, from time.Time, window time.Duration) ([]model.Item, error) {
	until := from.Add(window)
	return c.find(ctx, "listing expiring items", model.ItemFilter{
		ExpiresFrom:  &from,
		ExpiresUntil: &until,
		Order:        model.OrderExpiryAsc,
	})
}

// ListByPurchaseRange returns items bought in [start, end).
func (c *Catalog) ListByPurchaseRange(ctx context.Context, start, end time.Time) ([]model.Item, error) {
	return c.find(ctx, "listing items by purchase date", model.ItemFilter{
		BoughtFrom:   &start,
		BoughtBefore: &end,
		Order:        model.OrderBoughtDesc,
	})
}

func (c *Catalog) find(ctx context.Context, op string, f model.ItemFilter) ([]model.Item, error) {
	items, err := c.store.FindItems(ctx, f)
	if err != nil {
		return nil, model.Unavailable(op, err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// AttachImage normalizes a photo of the item and stores it alongside the
// item. The item record itself is not modified.
func (c *Catalog) AttachImage(ctx context.Context, rawID string, r io.Reader) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}
	if _, err := c.get(ctx, id); err != nil {
		return err
	}

	photo, err := imaging.Normalize(r)
	if errors.Is(err, imaging.ErrUnsupported) {
		return &model.ValidationError{Fields: []string{"image"}}
	}
	if err != nil {
		return fmt.Errorf("processing image: %w", err)
	}

	if err := c.store.SetItemImage(ctx, id, photo.Data, photo.MIME); err != nil {
		return model.Unavailable("storing item image", err)
	}
	return nil
}

// Image returns the stored photo of an item.
func (c *Catalog) Image(ctx context.Context, rawID string) ([]byte, string, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, "", err
	}
	data, mime, err := c.store.GetItemImage(ctx, id)
	if err != nil {
		return nil, "", model.Unavailable("getting item image", err)
	}
	if data == nil {
		return nil, "", fmt.Errorf("image for item %d: %w", id, model.ErrNotFound)
	}
	return data, mime, nil
}
