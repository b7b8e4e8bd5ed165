package models

import "errors"

// Error taxonomy shared by the file resolver, the name resolver and the
// sync workflows. Callers wrap these with context and test with errors.Is.
var (
	// ErrNotFound covers a missing local file and a name with zero remote matches.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousName means more than one editable script carries the name.
	ErrAmbiguousName = errors.New("ambiguous name")
	// ErrInvalidArguments covers bad or missing command arguments.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrUnsupported is returned when upload would have to create a script.
	ErrUnsupported = errors.New("unsupported operation")
	// ErrMissingMetadata aborts an upload batch before any network call.
	ErrMissingMetadata = errors.New("missing metadata")
)
