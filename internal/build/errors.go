package build

import "errors"

var (
	// ErrFrozen is returned when mutating a built MetadataInfo or a sealed
	// BuildResult.
	ErrFrozen = errors.New("build: record is frozen")

	ErrNotFrozen = errors.New("build: metadata info must be built before it is added")
)
