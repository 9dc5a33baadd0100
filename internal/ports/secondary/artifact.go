// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application
// reaches the filesystem and the classpath.
package secondary

import (
	"context"
	"errors"
)

// ErrNotFound indicates that a class could not be resolved on any search
// path entry.
var ErrNotFound = errors.New("class not found")

// ClassDirectory walks a directory tree of compiled classes.
type ClassDirectory interface {
	// ListClassFiles returns the root-relative slash-form paths of all
	// .class files under root, in traversal order. A missing or
	// unreadable root is an error; an empty tree is not.
	ListClassFiles(ctx context.Context, root string) ([]string, error)
}

// ArtifactResolver resolves a fully qualified class name to its binary
// representation by searching a path list. Entries may be directories or
// jar files. Resolution order follows the search path.
type ArtifactResolver interface {
	// Resolve returns the class bytes, or ErrNotFound if no entry
	// provides the class.
	Resolve(ctx context.Context, className string, searchPath []string) ([]byte, error)
}

// ArtifactStore persists class bytes under an output directory, keyed by
// fully qualified class name.
type ArtifactStore interface {
	// Write stores the class bytes at Path(dir, className), creating
	// parent directories as needed.
	Write(ctx context.Context, dir, className string, data []byte) error

	// Path returns the on-disk location for a class under dir.
	Path(dir, className string) string
}
