package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors and are matched with
// errors.Is by callers.
var (
	// ErrConfig indicates invalid configuration, such as an overlap that is
	// not smaller than the chunk size or a missing model identifier.
	// Fatal at construction, never recovered at runtime.
	ErrConfig = errors.New("invalid configuration")

	// ErrCorpus indicates the document corpus could not be read or is
	// empty. An index build that hits this leaves the pipeline failed.
	ErrCorpus = errors.New("corpus error")

	// ErrProvider indicates an embedding or generation call failed or
	// timed out. Surfaced per request; never corrupts index state.
	ErrProvider = errors.New("provider error")

	// ErrDataIntegrity indicates a persisted index is corrupt, truncated,
	// or inconsistent. Callers must fall back to a full rebuild rather
	// than serve from a suspect index.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrModelMismatch indicates a query was embedded with a different
	// model identifier than the one the index was built with. Rejected
	// before search, never silently computed.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrNotReady indicates the pipeline has no published index. Queries
	// are rejected instead of triggering an implicit build so startup
	// cost stays explicit.
	ErrNotReady = errors.New("index not ready")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// non-positive top-k.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
