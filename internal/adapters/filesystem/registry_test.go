package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendProvider_CreatesFileWithExactlyTheName(t *testing.T) {
	file := filepath.Join(t.TempDir(), "META-INF", "services", "org.junit.jupiter.api.extension.Extension")

	writer := NewRegistryFileWriter()
	err := writer.AppendProvider(context.Background(), file, "com.example.classguard.junit5.GlobalTimeoutExtension")
	if err != nil {
		t.Fatalf("AppendProvider failed: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read registry file: %v", err)
	}
	if string(data) != "com.example.classguard.junit5.GlobalTimeoutExtension" {
		t.Errorf("unexpected content: %q", string(data))
	}
}

func TestAppendProvider_AppendsWithoutDeduplication(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Extension")
	writer := NewRegistryFileWriter()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := writer.AppendProvider(ctx, file, "com.example.Ext"); err != nil {
			t.Fatalf("AppendProvider failed: %v", err)
		}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read registry file: %v", err)
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), string(data))
	}
	for _, line := range lines {
		if line != "com.example.Ext" {
			t.Errorf("corrupted line: %q", line)
		}
	}
}

func TestAppendProvider_PreservesExistingContent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Extension")
	if err := os.WriteFile(file, []byte("com.other.Provider"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	writer := NewRegistryFileWriter()
	if err := writer.AppendProvider(context.Background(), file, "com.example.Ext"); err != nil {
		t.Fatalf("AppendProvider failed: %v", err)
	}

	data, _ := os.ReadFile(file)
	if string(data) != "com.other.Provider\ncom.example.Ext" {
		t.Errorf("unexpected content: %q", string(data))
	}
}
