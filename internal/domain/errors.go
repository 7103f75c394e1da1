package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrPermissionDeny  = errors.New("permission denied")
	ErrConflict        = errors.New("already exists")
	ErrInactiveAccount = errors.New("account is not active")
)
