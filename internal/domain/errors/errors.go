package errors

import "errors"

var (
	// ErrEmptyOrder rejects a submission whose item list is empty after
	// normalization.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrOrderNotFound reports a stale or purged order id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition reports a status move the lifecycle table does
	// not allow for the acting role.
	ErrInvalidTransition = errors.New("invalid order transition")
	// ErrConflict reports a transition lost to a concurrent one on the
	// same order.
	ErrConflict = errors.New("order changed concurrently")
	// ErrInvalidCredentials reports a failed staff PIN check.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
