package secondary

import "context"

// PatchLedger defines the secondary port for the audit trail persistence.
// The ledger is observational: it records what happened but is never
// consulted by the idempotency guard.
type PatchLedger interface {
	// RecordPatch persists one field injection.
	RecordPatch(ctx context.Context, rec *PatchRecord) error

	// ListPatches retrieves injections matching the filters, newest first.
	ListPatches(ctx context.Context, filters PatchListFilters) ([]*PatchRecord, error)

	// RecordRegistration persists one extension registration.
	RecordRegistration(ctx context.Context, rec *RegistrationRecord) error

	// ListRegistrations retrieves registrations, newest first.
	ListRegistrations(ctx context.Context) ([]*RegistrationRecord, error)

	// GetNextPatchID returns the next available patch record ID.
	GetNextPatchID(ctx context.Context) (string, error)

	// GetNextRegistrationID returns the next available registration
	// record ID.
	GetNextRegistrationID(ctx context.Context) (string, error)
}

// PatchRecord represents a field injection as stored in persistence.
type PatchRecord struct {
	ID              string
	ClassName       string
	FieldName       string
	ThresholdMillis int64
	Path            string
	CreatedAt       string
}

// RegistrationRecord represents an extension registration as stored in
// persistence.
type RegistrationRecord struct {
	ID              string
	ExtensionClass  string
	RegistryFile    string
	ThresholdMillis int64
	PropertyKey     string
	CreatedAt       string
}

// PatchListFilters contains filter options for querying patch records.
type PatchListFilters struct {
	ClassName string
	Limit     int
}
