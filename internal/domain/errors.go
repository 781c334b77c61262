package domain

import "errors"

var (
	// ErrNotFound is returned when a record does not exist in the store
	ErrNotFound = errors.New("record not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStoreFailure is returned when a request to the record store fails
	ErrStoreFailure = errors.New("record store request failed")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
