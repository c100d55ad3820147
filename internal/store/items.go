package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
)

// Items is the SQLite-backed item collection.
type Items struct {
	DB *sql.DB
}

const itemColumns = `i.id, i.name, i.bought_date, i.expiry_date, i.price, i.taken_by, i.added_by,
	i.created_at, i.updated_at, EXISTS (SELECT 1 FROM item_images im WHERE im.item_id = i.id)`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// InsertItem stores a validated item and returns it as persisted.
// The id and created/updated timestamps are assigned here.
func (s *Items) InsertItem(ctx context.Context, item *model.Item) (*model.Item, error) {
	now := db.FormatTime(time.Now())

	var takenBy sql.NullString
	if item.TakenBy != nil {
		takenBy = sql.NullString{String: *item.TakenBy, Valid: true}
	}

	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO items (name, bought_date, expiry_date, price, taken_by, added_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, db.FormatTime(item.BoughtDate), db.FormatTime(item.ExpiryDate), item.Price,
		takenBy, item.AddedBy, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	created, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("item %d vanished after insert", id)
	}
	return created, nil
}

// GetItem returns an item by ID, or nil if there is none.
func (s *Items) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items i WHERE i.id = ?`, id,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// FindItems returns the items matching the filter in the requested order.
func (s *Items) FindItems(ctx context.Context, f model.ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE 1=1`
	var args []any

	if f.BoughtFrom != nil {
		query += ` AND i.bought_date >= ?`
		args = append(args, db.FormatTime(*f.BoughtFrom))
	}
	if f.BoughtBefore != nil {
		query += ` AND i.bought_date < ?`
		args = append(args, db.FormatTime(*f.BoughtBefore))
	}
	if f.ExpiresFrom != nil {
		query += ` AND i.expiry_date >= ?`
		args = append(args, db.FormatTime(*f.ExpiresFrom))
	}
	if f.ExpiresUntil != nil {
		query += ` AND i.expiry_date <= ?`
		args = append(args, db.FormatTime(*f.ExpiresUntil))
	}

	switch f.Order {
	case model.OrderExpiryAsc:
		query += ` ORDER BY i.expiry_date ASC, i.id ASC`
	default:
		query += ` ORDER BY i.bought_date DESC, i.id DESC`
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetItemImage stores or replaces an item's photo.
func (s *Items) SetItemImage(ctx context.Context, id int64, image []byte, mime string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO item_images (item_id, image, image_mime, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (item_id) DO UPDATE SET image = excluded.image, image_mime = excluded.image_mime,
		     updated_at = excluded.updated_at`,
		id, image, mime, db.FormatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's photo and MIME type, or nil data if it has none.
func (s *Items) GetItemImage(ctx context.Context, id int64) ([]byte, string, error) {
	var image []byte
	var mime string
	err := s.DB.QueryRowContext(ctx,
		`SELECT image, image_mime FROM item_images WHERE item_id = ?`, id,
	).Scan(&image, &mime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime, nil
}

func scanItem(row scanner) (*model.Item, error) {
	var (
		item                                 model.Item
		takenBy                              sql.NullString
		bought, expiry, createdAt, updatedAt string
	)
	if err := row.Scan(&item.ID, &item.Name, &bought, &expiry, &item.Price, &takenBy, &item.AddedBy,
		&createdAt, &updatedAt, &item.HasImage); err != nil {
		return nil, err
	}
	if takenBy.Valid {
		item.TakenBy = &takenBy.String
	}

	var err error
	if item.BoughtDate, err = db.ParseTime(bought); err != nil {
		return nil, err
	}
	if item.ExpiryDate, err = db.ParseTime(expiry); err != nil {
		return nil, err
	}
	if item.CreatedAt, err = db.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = db.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}
