// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates the input failed validation.
var ErrValidation = errors.New("validation failed")

// ErrUnauthorized indicates the caller presented no or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not permitted,
// or the target is protected (superadmin accounts, self-deletion).
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates a uniqueness or concurrent modification conflict.
var ErrConflict = errors.New("conflict")
