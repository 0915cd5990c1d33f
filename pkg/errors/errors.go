package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrValidation is returned when a required request parameter is missing.
type ErrValidation struct {
	Param string
}

func (e *ErrValidation) Error() string {
	return e.Param + " missing"
}

// ErrNotFound is returned when no matching product or attachment exists.
type ErrNotFound struct {
	Message string
}

func (e *ErrNotFound) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "not found"
}

// ErrUnauthorized is returned when a protected route is called without a
// verified shop session.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrOperationRejected is returned when a Shopify mutation came back with a
// non-empty userErrors list. UserErrors carries the serialized list.
type ErrOperationRejected struct {
	Operation  string
	UserErrors json.RawMessage
}

func (e *ErrOperationRejected) Error() string {
	return fmt.Sprintf("shopify rejected %s: %s", e.Operation, string(e.UserErrors))
}

// IsValidation reports whether err is an ErrValidation.
func IsValidation(err error) bool {
	var target *ErrValidation
	return errors.As(err, &target)
}

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool {
	var target *ErrNotFound
	return errors.As(err, &target)
}

// IsUnauthorized reports whether err is an ErrUnauthorized.
func IsUnauthorized(err error) bool {
	var target *ErrUnauthorized
	return errors.As(err, &target)
}
