package services

import (
	"errors"

	"filenest/repository"
)

// ErrNotFound covers both "does not exist" and "not yours"; the caller
// cannot tell them apart, so folder and file ids cannot be probed.
var ErrNotFound = repository.ErrNotFound

var (
	// ErrInvalidFolder rejects an upload or move targeting a folder the
	// caller does not own.
	ErrInvalidFolder = errors.New("target folder does not exist")

	// ErrInvalidName rejects an empty or whitespace-only folder name.
	ErrInvalidName = errors.New("folder name must not be empty")

	// ErrStorage wraps storage backend failures on the primary path.
	ErrStorage = errors.New("storage backend failure")
)
