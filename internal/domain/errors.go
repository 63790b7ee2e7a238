package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAmount       = errors.New("bonus amount must be non-zero")
	ErrInsufficientBalance = errors.New("insufficient bonus balance")
)
