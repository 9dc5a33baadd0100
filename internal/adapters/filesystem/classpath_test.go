package filesystem

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/classguard/internal/ports/secondary"
)

func writeJar(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create jar entry: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("failed to write jar entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close jar: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write jar file: %v", err)
	}
}

func TestResolve_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "com", "example", "Foo.class"), []byte{1, 2, 3})

	resolver := NewClasspathResolver()
	data, err := resolver.Resolve(context.Background(), "com.example.Foo", []string{dir})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Errorf("unexpected bytes: %v", data)
	}
}

func TestResolve_FromJar(t *testing.T) {
	jar := filepath.Join(t.TempDir(), "deps.jar")
	writeJar(t, jar, map[string][]byte{
		"com/example/junit5/GlobalTimeoutExtension.class": {0xCA, 0xFE},
	})

	resolver := NewClasspathResolver()
	data, err := resolver.Resolve(context.Background(), "com.example.junit5.GlobalTimeoutExtension", []string{jar})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0xCA, 0xFE}) {
		t.Errorf("unexpected bytes: %v", data)
	}
}

func TestResolve_SearchOrderWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "Foo.class"), []byte{1})
	writeFile(t, filepath.Join(second, "Foo.class"), []byte{2})

	resolver := NewClasspathResolver()
	data, err := resolver.Resolve(context.Background(), "Foo", []string{first, second})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if data[0] != 1 {
		t.Errorf("expected first entry to win, got %v", data)
	}
}

func TestResolve_NotFound(t *testing.T) {
	resolver := NewClasspathResolver()
	_, err := resolver.Resolve(context.Background(), "com.example.Missing", []string{t.TempDir()})
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
