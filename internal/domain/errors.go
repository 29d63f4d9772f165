package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed payloads or sheet values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream marks a failed call to the ticketing platform or spreadsheet API.
	ErrUpstream = errors.New("upstream request failed")
	// ErrUnauthorized marks a rejected credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTokenExpired marks an operator token past its expiry. It wraps ErrUnauthorized.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
	// ErrSheetNotConfigured is returned when a sheet tab name cannot be resolved.
	ErrSheetNotConfigured = errors.New("sheet not configured")
)
