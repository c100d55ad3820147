package model

import "time"

// Item is a purchased, perishable unit tracked with its cost and expiry.
// Items are immutable once created.
type Item struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	BoughtDate time.Time `json:"boughtDate"`
	ExpiryDate time.Time `json:"expiryDate"`
	Price      float64   `json:"price"`
	TakenBy    *string   `json:"takenBy"`
	AddedBy    string    `json:"addedBy"`
	HasImage   bool      `json:"hasImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewItem holds the client-supplied fields of an item before validation.
// A nil date or Price means the field was not supplied.
type NewItem struct {
	Name       string
	BoughtDate *time.Time
	ExpiryDate *time.Time
	Price      *float64
	TakenBy    string
	AddedBy    string
}

// Actor returns who the item's activity entry is attributed to: the person
// who took it, or whoever added it when nobody has claimed it yet.
func (i *Item) Actor() string {
	if i.TakenBy != nil && *i.TakenBy != "" {
		return *i.TakenBy
	}
	return i.AddedBy
}

// ItemOrder selects the sort order of an item query.
type ItemOrder int

// Item orderings.
const (
	OrderBoughtDesc ItemOrder = iota
	OrderExpiryAsc
)

// ItemFilter restricts an item query. A nil bound is open.
// Purchase bounds are half-open [BoughtFrom, BoughtBefore); expiry bounds
// are closed [ExpiresFrom, ExpiresUntil].
type ItemFilter struct {
	BoughtFrom   *time.Time
	BoughtBefore *time.Time
	ExpiresFrom  *time.Time
	ExpiresUntil *time.Time
	Order        ItemOrder
}
