package usecase

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("resource not found")
	ErrNotInitialized      = errors.New("league data not initialized")
	ErrUpstreamUnavailable = errors.New("fantasy upstream unavailable")
	ErrMalformedResponse   = errors.New("malformed upstream response")
	ErrInsufficientData    = errors.New("insufficient data")
)
