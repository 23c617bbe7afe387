package cachestore

import "errors"

var (
	// ErrStorageUnavailable wraps I/O failures of a backing.
	ErrStorageUnavailable = errors.New("cache storage unavailable")
	// ErrCorrupt wraps stored data that cannot be decoded.
	ErrCorrupt = errors.New("cache data corrupt")
)
