package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the catalog, ledger and account directory.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid id")
	ErrDuplicateEmail   = errors.New("email already in use")
	ErrWrongCredential  = errors.New("wrong password")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports the fields that are missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid or missing fields: " + strings.Join(e.Fields, ", ")
}

// Validation collects offending field names.
type Validation struct {
	fields []string
}

// Check records field as invalid unless ok holds.
func (v *Validation) Check(ok bool, field string) {
	if !ok {
		v.fields = append(v.fields, field)
	}
}

// Err returns a *ValidationError when any check failed, nil otherwise.
func (v *Validation) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Unavailable marks a record store failure during op. The result matches
// both ErrStoreUnavailable and err under errors.Is.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
