package store

import "errors"

var (
	// ErrTableNotFound is returned when the scanned or written table does not exist.
	ErrTableNotFound = errors.New("imagepipe: table not found")

	// ErrStore is returned for any other DynamoDB failure.
	ErrStore = errors.New("imagepipe: store request failed")

	// ErrInvalidKey is returned when a continuation key cannot be decoded.
	ErrInvalidKey = errors.New("imagepipe: invalid continuation key")
)
