package db

// SchemaSQL is the complete schema for the patch ledger.
//
// This is the single source of truth: repository tests load it through
// GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so drift
// between test and production schemas fails immediately with
// "no such column".
const SchemaSQL = `
-- Patches (one row per injected timeout field)
CREATE TABLE IF NOT EXISTS patches (
	id TEXT PRIMARY KEY,
	class_name TEXT NOT NULL,
	field_name TEXT NOT NULL,
	threshold_millis INTEGER NOT NULL,
	path TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_patches_class_name ON patches(class_name);

-- Registrations (one row per extension registration)
CREATE TABLE IF NOT EXISTS registrations (
	id TEXT PRIMARY KEY,
	extension_class TEXT NOT NULL,
	registry_file TEXT NOT NULL,
	threshold_millis INTEGER NOT NULL,
	property_key TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaSQL returns the authoritative schema.
func GetSchemaSQL() string {
	return SchemaSQL
}
