package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/example/classguard/internal/core/classfile"
	"github.com/example/classguard/internal/core/inject"
	"github.com/example/classguard/internal/ports/primary"
	"github.com/example/classguard/internal/ports/secondary"
)

// PatchServiceImpl implements the PatchService interface.
type PatchServiceImpl struct {
	discoverer primary.DiscoveryService
	resolver   secondary.ArtifactResolver
	store      secondary.ArtifactStore
	ledger     secondary.PatchLedger
}

// NewPatchService creates a new PatchService with injected dependencies.
func NewPatchService(
	discoverer primary.DiscoveryService,
	resolver secondary.ArtifactResolver,
	store secondary.ArtifactStore,
	ledger secondary.PatchLedger,
) *PatchServiceImpl {
	return &PatchServiceImpl{
		discoverer: discoverer,
		resolver:   resolver,
		store:      store,
		ledger:     ledger,
	}
}

// Patch discovers test classes and injects a timeout rule field into each.
// Without a configured threshold the whole run is a no-op.
func (s *PatchServiceImpl) Patch(ctx context.Context, req primary.PatchRequest) (*primary.PatchResponse, error) {
	if req.ThresholdMillis == nil {
		return &primary.PatchResponse{NoOp: true}, nil
	}
	threshold := *req.ThresholdMillis
	if threshold <= 0 {
		return nil, fmt.Errorf("timeout threshold must be positive, got %d", threshold)
	}

	discovered, err := s.discoverer.Discover(ctx, primary.DiscoverRequest{
		ClassesDir:     req.ClassesDir,
		Suffixes:       req.Suffixes,
		IgnorePatterns: req.IgnorePatterns,
	})
	if err != nil {
		return nil, err
	}

	// Helper classes for the secondary framework are resolved through the
	// classpath, so the output directory is searched first and the
	// classpath after it.
	searchPath := append([]string{req.ClassesDir}, req.Classpath...)

	// Candidates touch distinct files and share no state, so they are
	// patched concurrently. Outcomes keep discovery order.
	outcomes := make([]primary.PatchOutcome, len(discovered.Candidates))
	g, gctx := errgroup.WithContext(ctx)
	limit := req.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)

	for i, candidate := range discovered.Candidates {
		i, candidate := i, candidate
		g.Go(func() error {
			outcome, err := s.patchOne(gctx, candidate, threshold, searchPath, req.ClassesDir, req.DryRun)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The ledger write is the one shared resource; record sequentially.
	if !req.DryRun {
		for _, outcome := range outcomes {
			if outcome.Skipped {
				continue
			}
			if err := s.record(ctx, outcome, threshold); err != nil {
				return nil, err
			}
		}
	}

	return &primary.PatchResponse{Outcomes: outcomes}, nil
}

// patchOne applies the timeout field to a single candidate class.
func (s *PatchServiceImpl) patchOne(
	ctx context.Context,
	candidate primary.Candidate,
	threshold int64,
	searchPath []string,
	classesDir string,
	dryRun bool,
) (primary.PatchOutcome, error) {
	outcome := primary.PatchOutcome{
		ClassName: candidate.ClassName,
		Path:      candidate.Path,
		DryRun:    dryRun,
	}

	data, err := s.resolver.Resolve(ctx, candidate.ClassName, searchPath)
	if err != nil {
		return outcome, fmt.Errorf("failed to resolve %s: %w", candidate.ClassName, err)
	}

	cls, err := classfile.Parse(data)
	if err != nil {
		return outcome, fmt.Errorf("failed to parse %s: %w", candidate.ClassName, err)
	}

	patched, guardErr := inject.AlreadyPatched(cls, candidate.ClassName, threshold)
	if patched {
		outcome.Skipped = true
		return outcome, nil
	}
	if guardErr != nil {
		// The lookup miss is the expected, recoverable outcome: log it
		// through the result and proceed as not-patched.
		if !errors.Is(guardErr, inject.ErrFieldNotFound) {
			return outcome, guardErr
		}
		outcome.GuardNote = guardErr.Error()
	}

	spec := inject.NewFieldSpec(candidate.ClassName, threshold)
	if err := cls.AddAnnotatedField(spec.FieldName, spec.TypeDescriptor, spec.Annotation.TypeDescriptor); err != nil {
		return outcome, fmt.Errorf("failed to add timeout field to %s: %w", candidate.ClassName, err)
	}
	outcome.FieldName = spec.FieldName

	if dryRun {
		return outcome, nil
	}

	if err := s.store.Write(ctx, classesDir, candidate.ClassName, cls.Bytes()); err != nil {
		return outcome, fmt.Errorf("failed to write %s: %w", candidate.ClassName, err)
	}
	return outcome, nil
}

func (s *PatchServiceImpl) record(ctx context.Context, outcome primary.PatchOutcome, threshold int64) error {
	id, err := s.ledger.GetNextPatchID(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate patch ID: %w", err)
	}
	return s.ledger.RecordPatch(ctx, &secondary.PatchRecord{
		ID:              id,
		ClassName:       outcome.ClassName,
		FieldName:       outcome.FieldName,
		ThresholdMillis: threshold,
		Path:            outcome.Path,
	})
}

// Ensure PatchServiceImpl implements the interface.
var _ primary.PatchService = (*PatchServiceImpl)(nil)
