package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrMissingTrackingNumber = errors.New("tracking number required")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrPublishUnavailable    = errors.New("event publish unavailable")
)
