package services

import "errors"

// Sentinel errors shared across services. Handlers map these onto the stable
// API error codes.
var (
	ErrNotFound          = errors.New("services: record not found")
	ErrInvalidInput      = errors.New("services: invalid input")
	ErrInvalidTransition = errors.New("services: invalid status transition")
	ErrEmailTaken        = errors.New("services: email already registered")
	ErrSelfRoleChange    = errors.New("services: cannot change own role")
	ErrNotSuperAdmin     = errors.New("services: only superAdmin may change roles")
	ErrAlreadyRegistered = errors.New("services: entry already registered")
)
