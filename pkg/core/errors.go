package core

import "errors"

// Common errors.
var (
	ErrAnnotationExists = errors.New("annotation already exists")
	ErrNoMetadata       = errors.New("no metadata found")
	ErrMalformedBlock   = errors.New("malformed injection block")
	ErrInvalidTag       = errors.New("invalid block tag")
	ErrAlreadyRunning   = errors.New("another reconciliation is running")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
