package app

import (
	"context"
	"fmt"

	"github.com/example/classguard/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockClassDirectory implements secondary.ClassDirectory for testing.
type mockClassDirectory struct {
	paths []string
	err   error
}

func (m *mockClassDirectory) ListClassFiles(ctx context.Context, root string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.paths, nil
}

// mockResolver implements secondary.ArtifactResolver for testing.
type mockResolver struct {
	classes    map[string][]byte
	searchPath []string // last search path seen
}

func newMockResolver() *mockResolver {
	return &mockResolver{classes: make(map[string][]byte)}
}

func (m *mockResolver) Resolve(ctx context.Context, className string, searchPath []string) ([]byte, error) {
	m.searchPath = searchPath
	if data, ok := m.classes[className]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", secondary.ErrNotFound, className)
}

// mockStore implements secondary.ArtifactStore for testing.
type mockStore struct {
	written  map[string][]byte // className -> bytes
	writeErr error
}

func newMockStore() *mockStore {
	return &mockStore{written: make(map[string][]byte)}
}

func (m *mockStore) Write(ctx context.Context, dir, className string, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written[className] = data
	return nil
}

func (m *mockStore) Path(dir, className string) string {
	return dir + "/" + className
}

// mockRegistry implements secondary.RegistryWriter for testing.
type mockRegistry struct {
	lines map[string][]string // file -> appended providers
	err   error
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{lines: make(map[string][]string)}
}

func (m *mockRegistry) AppendProvider(ctx context.Context, file, providerClass string) error {
	if m.err != nil {
		return m.err
	}
	m.lines[file] = append(m.lines[file], providerClass)
	return nil
}

// mockLedger implements secondary.PatchLedger for testing.
type mockLedger struct {
	patches       []*secondary.PatchRecord
	registrations []*secondary.RegistrationRecord
	recordErr     error
}

func newMockLedger() *mockLedger {
	return &mockLedger{}
}

func (m *mockLedger) RecordPatch(ctx context.Context, rec *secondary.PatchRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.patches = append(m.patches, rec)
	return nil
}

func (m *mockLedger) ListPatches(ctx context.Context, filters secondary.PatchListFilters) ([]*secondary.PatchRecord, error) {
	return m.patches, nil
}

func (m *mockLedger) RecordRegistration(ctx context.Context, rec *secondary.RegistrationRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.registrations = append(m.registrations, rec)
	return nil
}

func (m *mockLedger) ListRegistrations(ctx context.Context) ([]*secondary.RegistrationRecord, error) {
	return m.registrations, nil
}

func (m *mockLedger) GetNextPatchID(ctx context.Context) (string, error) {
	return fmt.Sprintf("PAT-%03d", len(m.patches)+1), nil
}

func (m *mockLedger) GetNextRegistrationID(ctx context.Context) (string, error) {
	return fmt.Sprintf("REG-%03d", len(m.registrations)+1), nil
}
