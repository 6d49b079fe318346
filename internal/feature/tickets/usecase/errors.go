// Package usecase implements the business logic for the tickets feature.
package usecase

import "errors"

var (
	// ErrTicketNotFound is returned when no ticket matches the given ID.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrInvalidTicket is returned when a create/update payload fails validation.
	ErrInvalidTicket = errors.New("invalid ticket")

	// ErrInvalidFilter is returned for a userId filter that is neither a sentinel nor an ID.
	ErrInvalidFilter = errors.New("invalid user filter")
)
