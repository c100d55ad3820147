package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestItemActor(t *testing.T) {
	bob := "Bob"
	empty := ""

	tests := []struct {
		name    string
		takenBy *string
		want    string
	}{
		{"taken", &bob, "Bob"},
		{"unclaimed", nil, "Alice"},
		{"empty claim", &empty, "Alice"},
	}

	for _, tt := range tests {
		item := Item{AddedBy: "Alice", TakenBy: tt.takenBy}
		if got := item.Actor(); got != tt.want {
			t.Errorf("%s: Actor() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestValidationCollectsFields(t *testing.T) {
	var v Validation
	v.Check(true, "name")
	v.Check(false, "price")
	v.Check(false, "addedBy")

	err := v.Err()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Fields) != 2 || ve.Fields[0] != "price" || ve.Fields[1] != "addedBy" {
		t.Errorf("unexpected fields: %v", ve.Fields)
	}

	wrapped := fmt.Errorf("creating item: %w", err)
	if !IsValidation(wrapped) {
		t.Error("expected wrapped validation error to be detected")
	}

	var clean Validation
	if clean.Err() != nil {
		t.Error("expected nil error when every check passes")
	}
}
