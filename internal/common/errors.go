// Package common defines shared sentinel errors used across storage and
// service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Backup/export errors.
	ErrNothingToExport = errors.New("nothing to export")
)
