package service

import "errors"

var (
	ErrValidation             = errors.New("validation failed")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrNotFound               = errors.New("item not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrNotFoundOrUnauthorized = errors.New("item not found or not owned by requester")
)
