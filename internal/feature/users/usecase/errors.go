// Package usecase implements the business logic for the users feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the given ID or username.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidUser is returned when a create/update payload fails validation.
	ErrInvalidUser = errors.New("invalid user")

	// ErrUsernameTaken is returned when another user already has the username.
	ErrUsernameTaken = errors.New("username already exists")
)
