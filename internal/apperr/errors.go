// Package apperr defines the error kinds shared by the service and transport layers.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a mutation rejected because other records still depend on the target.
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid input")
	// ErrIntegrity marks stored data that violates a referential invariant.
	ErrIntegrity = errors.New("integrity violation")
)
