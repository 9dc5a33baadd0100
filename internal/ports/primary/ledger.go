package primary

import "context"

// LedgerService exposes the audit trail of past patch and registration runs.
type LedgerService interface {
	// ListPatches returns recorded field injections, newest first.
	ListPatches(ctx context.Context, filters PatchFilters) ([]*PatchEntry, error)

	// ListRegistrations returns recorded extension registrations, newest
	// first.
	ListRegistrations(ctx context.Context) ([]*RegistrationEntry, error)
}

// PatchFilters narrows a ledger listing.
type PatchFilters struct {
	ClassName string
	Limit     int
}

// PatchEntry is one recorded field injection.
type PatchEntry struct {
	ID              string
	ClassName       string
	FieldName       string
	ThresholdMillis int64
	Path            string
	CreatedAt       string
}

// RegistrationEntry is one recorded extension registration.
type RegistrationEntry struct {
	ID              string
	ExtensionClass  string
	RegistryFile    string
	ThresholdMillis int64
	PropertyKey     string
	CreatedAt       string
}
