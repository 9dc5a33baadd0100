package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/example/classguard/internal/core/inject"
	"github.com/example/classguard/internal/ports/primary"
	"github.com/example/classguard/internal/ports/secondary"
)

// helperClasses are the pre-built artifacts copied into the test output so
// the extension participates in the run's own classpath. Order matters only
// for reporting.
var helperClasses = []string{
	inject.ExtensionClass,
	inject.InvocationClass,
}

// RegistrarServiceImpl implements the RegistrarService interface.
type RegistrarServiceImpl struct {
	resolver secondary.ArtifactResolver
	store    secondary.ArtifactStore
	registry secondary.RegistryWriter
	ledger   secondary.PatchLedger
}

// NewRegistrarService creates a new RegistrarService with injected
// dependencies.
func NewRegistrarService(
	resolver secondary.ArtifactResolver,
	store secondary.ArtifactStore,
	registry secondary.RegistryWriter,
	ledger secondary.PatchLedger,
) *RegistrarServiceImpl {
	return &RegistrarServiceImpl{
		resolver: resolver,
		store:    store,
		registry: registry,
		ledger:   ledger,
	}
}

// Register installs the JUnit 5 global timeout extension. Gated on the
// caller-reported framework presence and a configured threshold; any failing
// step fails the whole registration.
func (s *RegistrarServiceImpl) Register(ctx context.Context, req primary.RegisterRequest) (*primary.RegisterResponse, error) {
	if !req.Junit5Present || req.ThresholdMillis == nil {
		return &primary.RegisterResponse{NoOp: true}, nil
	}
	threshold := *req.ThresholdMillis

	registryFile := filepath.Join(req.ResourcesDir, "META-INF", "services", inject.ExtensionInterface)
	if err := s.registry.AppendProvider(ctx, registryFile, inject.ExtensionClass); err != nil {
		return nil, fmt.Errorf("failed to register extension: %w", err)
	}

	copied := make([]string, 0, len(helperClasses))
	for _, helper := range helperClasses {
		data, err := s.resolver.Resolve(ctx, helper, req.Classpath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve helper class %s: %w", helper, err)
		}
		if err := s.store.Write(ctx, req.ClassesDir, helper, data); err != nil {
			return nil, fmt.Errorf("failed to copy helper class %s: %w", helper, err)
		}
		copied = append(copied, helper)
	}

	property := primary.SystemProperty{
		Key:   inject.TimeoutPropertyKey,
		Value: strconv.FormatInt(threshold, 10),
	}

	id, err := s.ledger.GetNextRegistrationID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate registration ID: %w", err)
	}
	err = s.ledger.RecordRegistration(ctx, &secondary.RegistrationRecord{
		ID:              id,
		ExtensionClass:  inject.ExtensionClass,
		RegistryFile:    registryFile,
		ThresholdMillis: threshold,
		PropertyKey:     property.Key,
	})
	if err != nil {
		return nil, err
	}

	return &primary.RegisterResponse{
		RegistryFile:  registryFile,
		CopiedClasses: copied,
		Property:      property,
	}, nil
}

// Ensure RegistrarServiceImpl implements the interface.
var _ primary.RegistrarService = (*RegistrarServiceImpl)(nil)
