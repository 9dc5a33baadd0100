// Package app implements the primary ports by orchestrating the core logic
// and the secondary adapters.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/example/classguard/internal/core/discovery"
	"github.com/example/classguard/internal/ports/primary"
	"github.com/example/classguard/internal/ports/secondary"
)

// DiscoveryServiceImpl implements the DiscoveryService interface.
type DiscoveryServiceImpl struct {
	classDir secondary.ClassDirectory
}

// NewDiscoveryService creates a new DiscoveryService with injected
// dependencies.
func NewDiscoveryService(classDir secondary.ClassDirectory) *DiscoveryServiceImpl {
	return &DiscoveryServiceImpl{classDir: classDir}
}

// Discover walks the class directory and returns qualifying test classes in
// traversal order.
func (s *DiscoveryServiceImpl) Discover(ctx context.Context, req primary.DiscoverRequest) (*primary.DiscoverResponse, error) {
	ignores, err := discovery.CompileIgnores(req.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	paths, err := s.classDir.ListClassFiles(ctx, req.ClassesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to discover test classes: %w", err)
	}

	matches := discovery.Filter(paths, req.Suffixes, ignores)

	resp := &primary.DiscoverResponse{
		Candidates: make([]primary.Candidate, 0, len(matches)),
	}
	for _, m := range matches {
		resp.Candidates = append(resp.Candidates, primary.Candidate{
			ClassName: m.ClassName,
			Path:      filepath.Join(req.ClassesDir, filepath.FromSlash(m.RelPath)),
		})
	}
	return resp, nil
}

// Ensure DiscoveryServiceImpl implements the interface.
var _ primary.DiscoveryService = (*DiscoveryServiceImpl)(nil)
