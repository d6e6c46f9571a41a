package domain

import "errors"

// Domain errors represent pipeline failures.
// Adapters wrap them with %w so callers can match with errors.Is.
var (
	// ErrNotFound indicates a requested entity or file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates a missing credential or invalid setting.
	// It is fatal and raised before any pipeline work begins.
	ErrConfiguration = errors.New("configuration error")

	// ErrEmptyInput indicates an index build with zero chunks.
	ErrEmptyInput = errors.New("empty input")

	// ErrNotBuilt indicates a search on an index that has not been built.
	ErrNotBuilt = errors.New("index not built")

	// ErrDimensionMismatch indicates vectors of differing length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrUnsupportedFormat indicates an unrecognised file type.
	// Batch ingest logs and skips it.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Upstream Errors.

	// ErrUpstream indicates an embedding or language model call failed.
	ErrUpstream = errors.New("upstream service error")

	// ErrAuthentication indicates the provider rejected the credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrQuotaExceeded indicates the provider rate limit or quota was hit.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a provider call did not finish in time.
	ErrTimeout = errors.New("timeout")
)
