package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/classguard/internal/core/inject"
	"github.com/example/classguard/internal/ports/primary"
)

func newRegistrarFixture(t *testing.T) (*RegistrarServiceImpl, *mockResolver, *mockStore, *mockRegistry, *mockLedger) {
	t.Helper()
	resolver := newMockResolver()
	store := newMockStore()
	registry := newMockRegistry()
	ledger := newMockLedger()
	return NewRegistrarService(resolver, store, registry, ledger), resolver, store, registry, ledger
}

func registerRequest(junit5 bool, threshold *int64) primary.RegisterRequest {
	return primary.RegisterRequest{
		Junit5Present:   junit5,
		ThresholdMillis: threshold,
		ResourcesDir:    "/out/resources",
		ClassesDir:      "/out/classes",
		Classpath:       []string{"/deps/classguard-junit5.jar"},
	}
}

func TestRegister_NoOpGates(t *testing.T) {
	tests := []struct {
		name string
		req  primary.RegisterRequest
	}{
		{name: "junit5 absent", req: registerRequest(false, int64Ptr(5000))},
		{name: "no threshold", req: registerRequest(true, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, store, registry, ledger := newRegistrarFixture(t)

			resp, err := service.Register(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Register failed: %v", err)
			}
			if !resp.NoOp {
				t.Error("expected NoOp response")
			}
			if len(registry.lines) != 0 || len(store.written) != 0 || len(ledger.registrations) != 0 {
				t.Error("no-op must not touch registry, store or ledger")
			}
		})
	}
}

func TestRegister_InstallsExtension(t *testing.T) {
	service, resolver, store, registry, ledger := newRegistrarFixture(t)
	resolver.classes[inject.ExtensionClass] = []byte{0xCA, 0xFE}
	resolver.classes[inject.InvocationClass] = []byte{0xBA, 0xBE}

	resp, err := service.Register(context.Background(), registerRequest(true, int64Ptr(7500)))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	wantFile := filepath.Join("/out/resources", "META-INF", "services", inject.ExtensionInterface)
	if resp.RegistryFile != wantFile {
		t.Errorf("expected registry file %s, got %s", wantFile, resp.RegistryFile)
	}
	providers := registry.lines[wantFile]
	if len(providers) != 1 || providers[0] != inject.ExtensionClass {
		t.Errorf("unexpected registry content: %v", providers)
	}

	if len(store.written) != 2 {
		t.Fatalf("expected 2 copied helper classes, got %d", len(store.written))
	}
	for _, helper := range []string{inject.ExtensionClass, inject.InvocationClass} {
		if _, ok := store.written[helper]; !ok {
			t.Errorf("helper %s not copied", helper)
		}
	}
	if len(resp.CopiedClasses) != 2 {
		t.Errorf("expected 2 copied classes reported, got %v", resp.CopiedClasses)
	}

	if resp.Property.Key != inject.TimeoutPropertyKey {
		t.Errorf("unexpected property key: %s", resp.Property.Key)
	}
	if resp.Property.Value != "7500" {
		t.Errorf("unexpected property value: %s", resp.Property.Value)
	}

	if len(ledger.registrations) != 1 {
		t.Fatalf("expected 1 registration record, got %d", len(ledger.registrations))
	}
	rec := ledger.registrations[0]
	if rec.ExtensionClass != inject.ExtensionClass || rec.ThresholdMillis != 7500 {
		t.Errorf("unexpected registration record: %+v", rec)
	}
}

func TestRegister_EachCallAppendsAgain(t *testing.T) {
	// The registry writer never deduplicates, so repeated registration
	// grows the provider file.
	service, resolver, _, registry, _ := newRegistrarFixture(t)
	resolver.classes[inject.ExtensionClass] = []byte{0xCA}
	resolver.classes[inject.InvocationClass] = []byte{0xFE}

	req := registerRequest(true, int64Ptr(5000))
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := service.Register(ctx, req); err != nil {
			t.Fatalf("Register %d failed: %v", i+1, err)
		}
	}

	wantFile := filepath.Join("/out/resources", "META-INF", "services", inject.ExtensionInterface)
	if got := len(registry.lines[wantFile]); got != 2 {
		t.Errorf("expected 2 provider lines, got %d", got)
	}
}

func TestRegister_MissingHelperIsFatal(t *testing.T) {
	service, resolver, _, _, ledger := newRegistrarFixture(t)
	resolver.classes[inject.ExtensionClass] = []byte{0xCA}
	// InvocationClass deliberately absent from the classpath.

	_, err := service.Register(context.Background(), registerRequest(true, int64Ptr(5000)))
	if err == nil || !strings.Contains(err.Error(), "failed to resolve helper class") {
		t.Errorf("expected helper resolution failure, got %v", err)
	}
	if len(ledger.registrations) != 0 {
		t.Error("failed registration must not be recorded")
	}
}
