package secondary

import "context"

// RegistryWriter appends provider entries to a line-oriented service
// registration file. Implementations never deduplicate: the service
// discovery contract tolerates a provider being declared more than once,
// and callers needing dedup can layer it on top.
//
// Appends are not serialized against concurrent writers. At most one
// registration per build is assumed; concurrent builds sharing a registry
// file would need external mutual exclusion.
type RegistryWriter interface {
	// AppendProvider appends the provider name on its own line, creating
	// the file (containing exactly the name) if it does not exist.
	AppendProvider(ctx context.Context, file, providerClass string) error
}
