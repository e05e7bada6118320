package agent

import "errors"

var (
	// ErrExtractionFormat means the extractor payload could not be read as the requested schema
	ErrExtractionFormat = errors.New("extraction format error")
	// ErrResolution means the location resolver failed or returned nothing usable
	ErrResolution = errors.New("location resolution failed")
	// ErrSearch wraps failures of the warehouse store
	ErrSearch = errors.New("warehouse search failed")
	// ErrInvalidRole rejects transcript entries that are neither user nor assistant
	ErrInvalidRole = errors.New("invalid transcript role")
	// ErrWorkflowDepthExceeded is returned when one turn chains more handlers than allowed.
	// It is the only error Turn returns.
	ErrWorkflowDepthExceeded = errors.New("workflow depth exceeded")
)
