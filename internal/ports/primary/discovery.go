// Package primary defines the primary ports (driving interfaces) for the
// application. CLI commands call services through these interfaces.
package primary

import "context"

// DiscoveryService finds compiled test classes under a class directory.
type DiscoveryService interface {
	// Discover walks the class directory and returns the qualifying
	// classes in traversal order.
	Discover(ctx context.Context, req DiscoverRequest) (*DiscoverResponse, error)
}

// DiscoverRequest configures one discovery pass.
type DiscoverRequest struct {
	ClassesDir     string
	Suffixes       []string
	IgnorePatterns []string
}

// DiscoverResponse holds the discovery result.
type DiscoverResponse struct {
	Candidates []Candidate
}

// Candidate is one compiled test class eligible for patching.
type Candidate struct {
	ClassName string // fully qualified, dotted form
	Path      string // absolute path of the class file
}
