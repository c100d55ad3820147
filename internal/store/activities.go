package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
)

// Activities is the SQLite-backed activity log.
type Activities struct {
	DB *sql.DB
}

// InsertActivity appends an entry to the log and returns it as persisted.
func (s *Activities) InsertActivity(ctx context.Context, a *model.Activity) (*model.Activity, error) {
	var message sql.NullString
	if a.Message != "" {
		message = sql.NullString{String: a.Message, Valid: true}
	}

	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO activities (taken_by, item_name, date, message) VALUES (?, ?, ?, ?)`,
		a.TakenBy, a.ItemName, db.FormatTime(a.Date), message,
	)
	if err != nil {
		return nil, fmt.Errorf("appending activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting activity id: %w", err)
	}

	created, err := s.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("activity %d vanished after insert", id)
	}
	return created, nil
}

// GetActivity returns an activity by ID, or nil if there is none.
func (s *Activities) GetActivity(ctx context.Context, id int64) (*model.Activity, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, taken_by, item_name, date, message FROM activities WHERE id = ?`, id,
	)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting activity: %w", err)
	}
	return a, nil
}

// ListActivities returns the whole log, newest first.
func (s *Activities) ListActivities(ctx context.Context) ([]model.Activity, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, taken_by, item_name, date, message FROM activities ORDER BY date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// DeleteBrokenActivities removes entries missing taken_by or item_name and
// returns how many were removed. Entries holding an empty string are kept.
func (s *Activities) DeleteBrokenActivities(ctx context.Context) (int64, error) {
	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM activities WHERE taken_by IS NULL OR item_name IS NULL`,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting broken activities: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted activities: %w", err)
	}
	return n, nil
}

func scanActivity(row scanner) (*model.Activity, error) {
	var (
		a                          model.Activity
		takenBy, itemName, message sql.NullString
		date                       string
	)
	if err := row.Scan(&a.ID, &takenBy, &itemName, &date, &message); err != nil {
		return nil, err
	}
	a.TakenBy = takenBy.String
	a.ItemName = itemName.String
	a.Message = message.String

	var err error
	if a.Date, err = db.ParseTime(date); err != nil {
		return nil, err
	}
	return &a, nil
}
