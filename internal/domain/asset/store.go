package asset

import "io"

// Store persists uploaded files for the duration of a run.
type Store interface {
	// Save writes r under a unique name derived from fileName and returns the saved path.
	Save(r io.Reader, fileName string) (string, error)
	// Remove deletes path. Removing a path that no longer exists is not an error.
	Remove(path string) error
}
