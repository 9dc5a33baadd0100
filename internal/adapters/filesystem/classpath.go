package filesystem

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/classguard/internal/ports/secondary"
)

// ClasspathResolver implements secondary.ArtifactResolver. Search path
// entries may be class directories or jar files; entries are consulted in
// order and the first hit wins.
type ClasspathResolver struct{}

// NewClasspathResolver creates a new classpath resolver.
func NewClasspathResolver() *ClasspathResolver {
	return &ClasspathResolver{}
}

// Resolve returns the bytes of the named class from the first search path
// entry that provides it.
func (r *ClasspathResolver) Resolve(ctx context.Context, className string, searchPath []string) ([]byte, error) {
	relSlash := strings.ReplaceAll(className, ".", "/") + ".class"

	for _, entry := range searchPath {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var (
			data []byte
			err  error
		)
		if isJar(entry) {
			data, err = readFromJar(entry, relSlash)
		} else {
			data, err = readFromDir(entry, relSlash)
		}
		if err != nil {
			return nil, err
		}
		if data != nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", secondary.ErrNotFound, className)
}

func isJar(entry string) bool {
	ext := strings.ToLower(filepath.Ext(entry))
	return ext == ".jar" || ext == ".zip"
}

// readFromDir returns nil bytes with nil error when the class is absent.
func readFromDir(dir, relSlash string) ([]byte, error) {
	path := filepath.Join(dir, filepath.FromSlash(relSlash))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// readFromJar returns nil bytes with nil error when the class is absent.
// A missing jar on the search path is treated as absence, matching how the
// runtime tolerates stale classpath entries.
func readFromJar(jarPath, relSlash string) ([]byte, error) {
	reader, err := zip.OpenReader(jarPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open jar %s: %w", jarPath, err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if f.Name != relSlash {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in %s: %w", relSlash, jarPath, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from %s: %w", relSlash, jarPath, err)
		}
		return data, nil
	}

	return nil, nil
}

// Ensure ClasspathResolver implements the interface.
var _ secondary.ArtifactResolver = (*ClasspathResolver)(nil)
