package bhoctree

import "errors"

// Sentinel errors returned by Engine methods. Callers should branch on
// these with errors.Is, not string comparison.
var (
	// ErrTooManyPoints is returned by BuildOctree when n exceeds the
	// arena capacity configured via Options.MaxPoints.
	ErrTooManyPoints = errors.New("bhoctree: point count exceeds MaxPoints")

	// ErrTooManyNodes is returned by BuildOctree when the octree build
	// would emit more nodes than Options.MaxNodes allows.
	ErrTooManyNodes = errors.New("bhoctree: node count exceeds MaxNodes")

	// ErrLinkIndexRange is returned by LinkForce when a link references
	// a point index outside [0, n).
	ErrLinkIndexRange = errors.New("bhoctree: link index out of range")
)
