package usecase

import "errors"

// ErrInvalidCredentials is returned for an unknown username and for a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid username or password")
