package domain

import "errors"

var (
	// ErrValidation is returned when input is missing or malformed. Nothing is written.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrFetch is returned when a remote source cannot be downloaded.
	ErrFetch = errors.New("fetch failed")
	// ErrParse is returned when downloaded markup cannot be parsed.
	ErrParse = errors.New("parse failed")
	// ErrDecode is returned when an uploaded document cannot be decoded.
	ErrDecode = errors.New("decode failed")
	// ErrUnsupportedFormat is returned for document extensions we do not read.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrPersistence wraps store failures.
	ErrPersistence = errors.New("persistence failed")
)
