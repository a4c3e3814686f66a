package services

import "errors"

// Common errors
var (
	ErrValidation      = errors.New("validation error")
	ErrContentTooLarge = errors.New("content exceeds maximum size")
	ErrNoteNotFound    = errors.New("note not found")
	ErrReportNotFound  = errors.New("report not found")
	ErrInvalidEditCode = errors.New("invalid edit code")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAlreadyReported = errors.New("note already reported recently")
	ErrInternal        = errors.New("internal server error")
)
