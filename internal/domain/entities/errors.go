package entities

import "errors"

// Domain errors
var (
	// Integration errors
	ErrAuth          = errors.New("credential rejected by upstream service")
	ErrUpstream      = errors.New("upstream service unavailable")
	ErrNotConfigured = errors.New("account is not configured")

	// Model output errors
	ErrMalformedResponse = errors.New("malformed model response")
	ErrSchemaViolation   = errors.New("model response violates schema")

	// Ingestion errors
	ErrAlreadySynced        = errors.New("transcript already synced")
	ErrBelowMinimumDuration = errors.New("transcript shorter than minimum duration")

	// Generic errors
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
