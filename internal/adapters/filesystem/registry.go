package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/classguard/internal/ports/secondary"
)

// RegistryFileWriter implements secondary.RegistryWriter with append-only
// file semantics.
type RegistryFileWriter struct{}

// NewRegistryFileWriter creates a new registry file writer.
func NewRegistryFileWriter() *RegistryFileWriter {
	return &RegistryFileWriter{}
}

// AppendProvider appends the provider name to the registry file, creating
// the file (containing exactly the name) if absent. Existing content is
// never rewritten and duplicates are never removed.
func (w *RegistryFileWriter) AppendProvider(ctx context.Context, file, providerClass string) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create services directory: %w", err)
	}

	_, statErr := os.Stat(file)
	exists := statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return fmt.Errorf("failed to check registry file: %w", statErr)
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open registry file: %w", err)
	}
	defer f.Close()

	line := providerClass
	if exists {
		line = "\n" + providerClass
	}
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to registry file: %w", err)
	}

	return nil
}

// Ensure RegistryFileWriter implements the interface.
var _ secondary.RegistryWriter = (*RegistryFileWriter)(nil)
