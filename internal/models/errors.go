package models

import "errors"

// Sentinel errors for the domain. Services wrap them with %w, handlers map
// them to HTTP statuses with errors.Is.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("invalid input")
	ErrConflict        = errors.New("resource already exists")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrInvalidFileType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFilename = errors.New("invalid filename")
)
