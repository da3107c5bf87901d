package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrNotConfigured      = errors.New("feature is not configured")
	ErrMissingMetadata    = errors.New("payment event is missing required metadata")
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrRateLimited        = errors.New("rate limited")
)
