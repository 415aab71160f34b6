package models

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse marks a vendor object that lacks a field the shim
// treats as required.
var ErrInvalidResponse = errors.New("invalid response from Nutanix API")

// ProjectionError names the entity, the missing field and, when known, the
// external id of the offending object.
type ProjectionError struct {
	Entity string
	Field  string
	ExtID  string
}

func (e *ProjectionError) Error() string {
	if e.ExtID != "" {
		return fmt.Sprintf("%s %s: missing required field %q", e.Entity, e.ExtID, e.Field)
	}
	return fmt.Sprintf("%s: missing required field %q", e.Entity, e.Field)
}

func (e *ProjectionError) Unwrap() error {
	return ErrInvalidResponse
}

func missing(entity, field string, extID *string) error {
	return &ProjectionError{Entity: entity, Field: field, ExtID: deref(extID)}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ptr[T any](v T) *T {
	return &v
}
