package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrUnauthorized     = errors.New("credentials rejected")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrNotEditing       = errors.New("no edit in progress")
	ErrBadStepIndex     = errors.New("step index out of range")
)
