package core

// Drive is the scoped key-addressable persistence surface consumed by
// routines. Paths are flat slash-separated strings; values must be JSON
// serializable. Implementations must be safe for concurrent use and must
// serialize concurrent writes to the same path.
//
// The drive is the only resource shared across runs; anything invocation
// scoped belongs in a StateFrame instead. This package does not define a wire
// format; see the drive package for an in-memory implementation.
type Drive interface {
	// Write stores (or overwrites) the value at path.
	Write(path string, value any) error

	// Read returns the value stored at path.
	Read(path string) (any, error)

	// List returns the paths stored under the given prefix, relative to this
	// drive's scope. An empty prefix lists everything.
	List(prefix string) ([]string, error)

	// Delete removes the value at path if present.
	Delete(path string) error

	// Scope returns a drive handle rooted at the given path segments. Reads and
	// writes through the returned handle are confined to that subtree.
	Scope(segments ...string) Drive
}
