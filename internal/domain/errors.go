package domain

import "errors"

// Adapter failure taxonomy. Adapters wrap one of these with %w.
var (
	// ErrTransport: no usable response (network error or non-success status).
	ErrTransport = errors.New("transport failure")
	// ErrDecode: a response arrived but does not match the expected shape.
	ErrDecode = errors.New("decode failure")
	// ErrNoData: well-formed response that explicitly carries no data.
	ErrNoData = errors.New("no data")

	ErrSliceClaimed = errors.New("slice already has a writer")
)
