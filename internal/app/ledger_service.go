package app

import (
	"context"
	"fmt"

	"github.com/example/classguard/internal/ports/primary"
	"github.com/example/classguard/internal/ports/secondary"
)

// LedgerServiceImpl implements the LedgerService interface.
type LedgerServiceImpl struct {
	ledger secondary.PatchLedger
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(ledger secondary.PatchLedger) *LedgerServiceImpl {
	return &LedgerServiceImpl{ledger: ledger}
}

// ListPatches returns recorded field injections, newest first.
func (s *LedgerServiceImpl) ListPatches(ctx context.Context, filters primary.PatchFilters) ([]*primary.PatchEntry, error) {
	records, err := s.ledger.ListPatches(ctx, secondary.PatchListFilters{
		ClassName: filters.ClassName,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list patches: %w", err)
	}

	entries := make([]*primary.PatchEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.PatchEntry{
			ID:              r.ID,
			ClassName:       r.ClassName,
			FieldName:       r.FieldName,
			ThresholdMillis: r.ThresholdMillis,
			Path:            r.Path,
			CreatedAt:       r.CreatedAt,
		}
	}
	return entries, nil
}

// ListRegistrations returns recorded extension registrations, newest first.
func (s *LedgerServiceImpl) ListRegistrations(ctx context.Context) ([]*primary.RegistrationEntry, error) {
	records, err := s.ledger.ListRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}

	entries := make([]*primary.RegistrationEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.RegistrationEntry{
			ID:              r.ID,
			ExtensionClass:  r.ExtensionClass,
			RegistryFile:    r.RegistryFile,
			ThresholdMillis: r.ThresholdMillis,
			PropertyKey:     r.PropertyKey,
			CreatedAt:       r.CreatedAt,
		}
	}
	return entries, nil
}

// Ensure LedgerServiceImpl implements the interface.
var _ primary.LedgerService = (*LedgerServiceImpl)(nil)
