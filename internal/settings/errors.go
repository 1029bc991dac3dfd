// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import "errors"

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidImport is returned when an import document cannot be applied.
	// The current settings are left untouched.
	ErrInvalidImport = errors.New("invalid settings import")

	// ErrVersionNotFound is returned when a version id does not exist or no
	// version is active.
	ErrVersionNotFound = errors.New("version not found")

	// ErrVersioningUnsupported is returned by version operations when the
	// configured backend has no version history.
	ErrVersioningUnsupported = errors.New("versioning is not supported by the local settings backend")

	// Logo upload errors.
	ErrLogoEmpty    = errors.New("logo file is empty")
	ErrLogoTooLarge = errors.New("logo exceeds the 2 MB limit")
	ErrLogoType     = errors.New("logo must be an image")
)

// ValidationError describes a rejected field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Is reports ErrValidation as a match so callers can use errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
