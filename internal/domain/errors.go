package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidationFailed  = errors.New("validation failed")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrSchemaMismatch    = errors.New("schema mismatch")
	ErrPersistenceFailed = errors.New("persistence failed")
)
