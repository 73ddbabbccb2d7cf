package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrInvalidSport = errors.New("invalid sport")
	ErrNotFound     = errors.New("Match not found") //nolint:staticcheck // client-facing text
	ErrInternal     = errors.New("internal server error")
)
