package models

import "errors"

// Custom errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidEvent = errors.New("invalid event")
	// ErrFetchFailed marks a soft failure: the market source could not be
	// reached and callers were served the last good snapshot instead.
	ErrFetchFailed = errors.New("market fetch failed")
)

// IsSoftFailure reports whether err only signals stale-but-usable data
func IsSoftFailure(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}
