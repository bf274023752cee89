package core

import "errors"

// Common errors.
var (
	// ErrEmptyContent is the validation error for a note without content.
	ErrEmptyContent = errors.New("note content cannot be empty")

	// ErrKeyNotFound is returned by Storage.Get when the key was never written.
	ErrKeyNotFound = errors.New("storage key not found")

	// ErrReadOnly is returned by write operations on a read-only storage.
	ErrReadOnly = errors.New("storage is in read-only mode")

	// ErrCacheNotFound is returned when a named cache does not exist.
	ErrCacheNotFound = errors.New("cache not found")
)
