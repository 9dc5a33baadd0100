// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/classguard/internal/ports/secondary"
)

// LedgerRepository implements secondary.PatchLedger with SQLite.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// RecordPatch persists one field injection.
func (r *LedgerRepository) RecordPatch(ctx context.Context, rec *secondary.PatchRecord) error {
	var path sql.NullString
	if rec.Path != "" {
		path = sql.NullString{String: rec.Path, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO patches (id, class_name, field_name, threshold_millis, path) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.ClassName, rec.FieldName, rec.ThresholdMillis, path,
	)
	if err != nil {
		return fmt.Errorf("failed to record patch: %w", err)
	}

	return nil
}

// ListPatches retrieves patch records matching the filters, newest first.
func (r *LedgerRepository) ListPatches(ctx context.Context, filters secondary.PatchListFilters) ([]*secondary.PatchRecord, error) {
	query := "SELECT id, class_name, field_name, threshold_millis, path, created_at FROM patches"
	var args []interface{}

	if filters.ClassName != "" {
		query += " WHERE class_name = ?"
		args = append(args, filters.ClassName)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patches: %w", err)
	}
	defer rows.Close()

	var records []*secondary.PatchRecord
	for rows.Next() {
		var (
			path      sql.NullString
			createdAt time.Time
		)

		rec := &secondary.PatchRecord{}
		err := rows.Scan(&rec.ID, &rec.ClassName, &rec.FieldName, &rec.ThresholdMillis, &path, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patch record: %w", err)
		}

		rec.Path = path.String
		rec.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, rec)
	}

	return records, nil
}

// RecordRegistration persists one extension registration.
func (r *LedgerRepository) RecordRegistration(ctx context.Context, rec *secondary.RegistrationRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO registrations (id, extension_class, registry_file, threshold_millis, property_key) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.ExtensionClass, rec.RegistryFile, rec.ThresholdMillis, rec.PropertyKey,
	)
	if err != nil {
		return fmt.Errorf("failed to record registration: %w", err)
	}

	return nil
}

// ListRegistrations retrieves registration records, newest first.
func (r *LedgerRepository) ListRegistrations(ctx context.Context) ([]*secondary.RegistrationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, extension_class, registry_file, threshold_millis, property_key, created_at FROM registrations ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var records []*secondary.RegistrationRecord
	for rows.Next() {
		var createdAt time.Time

		rec := &secondary.RegistrationRecord{}
		err := rows.Scan(&rec.ID, &rec.ExtensionClass, &rec.RegistryFile, &rec.ThresholdMillis, &rec.PropertyKey, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration record: %w", err)
		}

		rec.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, rec)
	}

	return records, nil
}

// GetNextPatchID returns the next available patch record ID.
func (r *LedgerRepository) GetNextPatchID(ctx context.Context) (string, error) {
	return r.nextID(ctx, "patches", "PAT")
}

// GetNextRegistrationID returns the next available registration record ID.
func (r *LedgerRepository) GetNextRegistrationID(ctx context.Context) (string, error) {
	return r.nextID(ctx, "registrations", "REG")
}

func (r *LedgerRepository) nextID(ctx context.Context, table, prefix string) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM %s", table),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next %s ID: %w", table, err)
	}

	return fmt.Sprintf("%s-%03d", prefix, maxID+1), nil
}

// Ensure LedgerRepository implements the interface.
var _ secondary.PatchLedger = (*LedgerRepository)(nil)
