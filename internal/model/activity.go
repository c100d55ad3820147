package model

import "time"

// Activity is an append-only log entry recording an action by a person on
// an item. It refers to the item by name only.
type Activity struct {
	ID       int64     `json:"id"`
	TakenBy  string    `json:"takenBy"`
	ItemName string    `json:"itemName"`
	Date     time.Time `json:"date"`
	Message  string    `json:"message,omitempty"`
}

// NewActivity holds the fields of an activity entry before validation.
// A zero Date is replaced with the current time.
type NewActivity struct {
	TakenBy  string
	ItemName string
	Date     time.Time
	Message  string
}
