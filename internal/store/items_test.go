package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func insertItem(t *testing.T, s *Items, name string, bought, expiry time.Time, price float64) *model.Item {
	t.Helper()
	item, err := s.InsertItem(context.Background(), &model.Item{
		Name:       name,
		BoughtDate: bought,
		ExpiryDate: expiry,
		Price:      price,
		AddedBy:    "Alice",
	})
	if err != nil {
		t.Fatalf("InsertItem(%s): %v", name, err)
	}
	return item
}

func TestInsertAndGetItem(t *testing.T) {
	s := &Items{DB: db.NewTestDB(t)}
	ctx := context.Background()

	taker := "Bob"
	item, err := s.InsertItem(ctx, &model.Item{
		Name:       "Milk",
		BoughtDate: day(2024, 1, 5),
		ExpiryDate: day(2024, 1, 10),
		Price:      3.5,
		TakenBy:    &taker,
		AddedBy:    "Alice",
	})
	if err != nil {
		t.Fatalf("InsertItem: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if item.CreatedAt.IsZero() || !item.CreatedAt.Equal(item.UpdatedAt) {
		t.Errorf("expected equal non-zero timestamps, got %v / %v", item.CreatedAt, item.UpdatedAt)
	}

	got, err := s.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Name != "Milk" || got.Price != 3.5 || got.AddedBy != "Alice" {
		t.Errorf("unexpected item: %+v", got)
	}
	if got.TakenBy == nil || *got.TakenBy != "Bob" {
		t.Errorf("expected takenBy Bob, got %v", got.TakenBy)
	}
	if !got.BoughtDate.Equal(day(2024, 1, 5)) || !got.ExpiryDate.Equal(day(2024, 1, 10)) {
		t.Errorf("dates did not round-trip: %v %v", got.BoughtDate, got.ExpiryDate)
	}
}

func TestGetItemMissing(t *testing.T) {
	s := &Items{DB: db.NewTestDB(t)}

	got, err := s.GetItem(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing item, got %+v", got)
	}
}

func TestFindItemsPurchaseRange(t *testing.T) {
	s := &Items{DB: db.NewTestDB(t)}
	ctx := context.Background()

	insertItem(t, s, "Old", day(2023, 12, 31), day(2024, 2, 1), 1)
	insertItem(t, s, "Start", day(2024, 1, 1), day(2024, 2, 1), 2)
	insertItem(t, s, "Late", day(2024, 1, 31), day(2024, 2, 1), 3)
	insertItem(t, s, "Next", day(2024, 2, 1), day(2024, 3, 1), 4)

	items, err := s.FindItems(ctx, model.ItemFilter{
		BoughtFrom:   ptr(day(2024, 1, 1)),
		BoughtBefore: ptr(day(2024, 2, 1)),
	})
	if err != nil {
		t.Fatalf("FindItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items in January, got %d", len(items))
	}
	// Newest purchase first.
	if items[0].Name != "Late" || items[1].Name != "Start" {
		t.Errorf("unexpected order: %s, %s", items[0].Name, items[1].Name)
	}
}

func TestFindItemsZeroTimeIsABound(t *testing.T) {
	s := &Items{DB: db.NewTestDB(t)}
	ctx := context.Background()

	insertItem(t, s, "Ancient", day(0, 12, 15), day(1, 1, 10), 7)
	insertItem(t, s, "First", day(1, 1, 1), day(1, 1, 10), 1)

	items, err := s.FindItems(ctx, model.ItemFilter{
		BoughtFrom:   ptr(time.Time{}),
		BoughtBefore: ptr(day(1, 2, 1)),
	})
	if err != nil {
		t.Fatalf("FindItems: %v", err)
	}
	if len(items) != 1 || items[0].Name != "First" {
		t.Errorf("expected only First, got %+v", items)
	}

	all, err := s.FindItems(ctx, model.ItemFilter{})
	if err != nil {
		t.Fatalf("FindItems: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected open bounds to match both items, got %d", len(all))
	}
}

func TestFindItemsExpiryWindowOrder(t *testing.T) {
	s := &Items{DB: db.NewTestDB(t)}
	ctx := context.Background()

	from := day(2024, 3, 1)
	insertItem(t, s, "Edge", day(2024, 2, 1), from.Add(72*time.Hour), 1)
	insertItem(t, s, "Today", day(2024, 2, 1), from, 1)
	insertItem(t, s, "Past", day(2024, 2, 1), from.Add(-time.Second), 1)

	items, err := s.FindItems(ctx, model.ItemFilter{
		ExpiresFrom:  ptr(from),
		ExpiresUntil: ptr(from.Add(72 * time.Hour)),
		Order:        model.OrderExpiryAsc,
	})
	if err != nil {
		t.Fatalf("FindItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Today" || items[1].Name != "Edge" {
		t.Errorf("unexpected order: %s, %s", items[0].Name, items[1].Name)
	}
}

func TestItemImage(t *testing.T) {
	s := &Items{DB: db.NewTestDB(t)}
	ctx := context.Background()

	item := insertItem(t, s, "Cheese", day(2024, 1, 1), day(2024, 1, 20), 6)

	data, _, err := s.GetItemImage(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if data != nil {
		t.Error("expected no image before upload")
	}

	if err := s.SetItemImage(ctx, item.ID, []byte("first"), "image/jpeg"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}
	if err := s.SetItemImage(ctx, item.ID, []byte("second"), "image/jpeg"); err != nil {
		t.Fatalf("SetItemImage replace: %v", err)
	}

	data, mime, err := s.GetItemImage(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "second" || mime != "image/jpeg" {
		t.Errorf("expected replaced image, got %q %q", data, mime)
	}

	got, _ := s.GetItem(ctx, item.ID)
	if !got.HasImage {
		t.Error("expected HasImage after upload")
	}
}
