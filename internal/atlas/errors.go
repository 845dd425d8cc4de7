package atlas

import "errors"

var (
	// ErrNotFound means the resource does not exist (yet). Expected whenever
	// the data pipeline lags or a date simply has no data.
	ErrNotFound = errors.New("resource not found")

	// ErrMalformed means the resource exists but violates the expected
	// shape. That is a producer bug, not a gap in the data.
	ErrMalformed = errors.New("malformed resource")

	// ErrNetwork is a transport-level failure; for display purposes it is
	// treated the same as ErrNotFound.
	ErrNetwork = errors.New("network failure")
)
