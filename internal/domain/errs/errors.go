// Package errs holds the error taxonomy shared by every domain service.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed, missing or out-of-bounds input.
type ValidationError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// NotFoundError reports a reference to an entity or association that does not exist.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (nfe *NotFoundError) Error() string {
	if nfe.ID == nil {
		return fmt.Sprintf("%s not found", nfe.Entity)
	}
	return fmt.Sprintf("%s with ID %v not found", nfe.Entity, nfe.ID)
}

// ConflictError reports an association or unique field that already exists.
type ConflictError struct {
	Entity string
	Field  string
	Value  interface{}
}

func (ce *ConflictError) Error() string {
	if ce.Value == nil {
		return fmt.Sprintf("%s with this %s already exists", ce.Entity, ce.Field)
	}
	return fmt.Sprintf("%s with %s %v already exists", ce.Entity, ce.Field, ce.Value)
}

// ForbiddenError reports an action the acting user may not perform.
type ForbiddenError struct {
	Action string
}

func (fe *ForbiddenError) Error() string {
	return fmt.Sprintf("not allowed to %s", fe.Action)
}

func Validation(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id interface{}) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Conflict(entity, field string, value interface{}) error {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}

func Forbidden(action string) error {
	return &ForbiddenError{Action: action}
}

// IsValidation checks if err wraps a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound checks if err wraps a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict checks if err wraps a ConflictError
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsForbidden checks if err wraps a ForbiddenError
func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}
