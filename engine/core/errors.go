package core

import (
	"errors"
)

var (
	// ErrMalformedGeometry is returned when a payload violates its shape invariants.
	ErrMalformedGeometry = errors.New("malformed geometry")
	// ErrNotFound is returned when a batch, render view or object id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrOverlappingRanges is returned when a single draw-range request overlaps itself.
	ErrOverlappingRanges = errors.New("overlapping draw ranges")
	// ErrUnknownGeometryType is returned for a geometry type outside the known set.
	ErrUnknownGeometryType = errors.New("unknown geometry type")
	ErrQueueFull           = errors.New("queue is full")
	ErrQueueEmpty          = errors.New("queue is empty")
	ErrUnknown             = errors.New("unknown")
)
