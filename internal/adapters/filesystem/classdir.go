// Package filesystem contains filesystem-based adapter implementations:
// class directory traversal, classpath resolution and the service registry
// writer.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/classguard/internal/ports/secondary"
)

// ClassDirAdapter implements secondary.ClassDirectory and
// secondary.ArtifactStore against the local filesystem.
type ClassDirAdapter struct{}

// NewClassDirAdapter creates a new class directory adapter.
func NewClassDirAdapter() *ClassDirAdapter {
	return &ClassDirAdapter{}
}

// ListClassFiles returns the root-relative slash-form paths of all .class
// files under root in traversal order.
func (a *ClassDirAdapter) ListClassFiles(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read class directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("class directory %s is not a directory", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".class") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk class directory: %w", err)
	}

	return paths, nil
}

// Write stores class bytes under dir, keyed by fully qualified class name.
func (a *ClassDirAdapter) Write(ctx context.Context, dir, className string, data []byte) error {
	path := a.Path(dir, className)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create class directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write class file: %w", err)
	}
	return nil
}

// Path returns the on-disk location for a class under dir.
func (a *ClassDirAdapter) Path(dir, className string) string {
	rel := strings.ReplaceAll(className, ".", string(filepath.Separator)) + ".class"
	return filepath.Join(dir, rel)
}

// Ensure ClassDirAdapter implements the interfaces.
var (
	_ secondary.ClassDirectory = (*ClassDirAdapter)(nil)
	_ secondary.ArtifactStore  = (*ClassDirAdapter)(nil)
)
