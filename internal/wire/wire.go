// Package wire provides dependency injection for the classguard application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/classguard/internal/adapters/filesystem"
	"github.com/example/classguard/internal/adapters/sqlite"
	"github.com/example/classguard/internal/app"
	"github.com/example/classguard/internal/db"
	"github.com/example/classguard/internal/ports/primary"
)

var (
	discoveryService primary.DiscoveryService
	patchService     primary.PatchService
	registrarService primary.RegistrarService
	ledgerService    primary.LedgerService
	once             sync.Once
)

// DiscoveryService returns the singleton DiscoveryService instance.
func DiscoveryService() primary.DiscoveryService {
	once.Do(initServices)
	return discoveryService
}

// PatchService returns the singleton PatchService instance.
func PatchService() primary.PatchService {
	once.Do(initServices)
	return patchService
}

// RegistrarService returns the singleton RegistrarService instance.
func RegistrarService() primary.RegistrarService {
	once.Do(initServices)
	return registrarService
}

// LedgerService returns the singleton LedgerService instance.
func LedgerService() primary.LedgerService {
	once.Do(initServices)
	return ledgerService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Secondary adapters: filesystem for class artifacts, sqlite for the
	// patch ledger.
	classDir := filesystem.NewClassDirAdapter()
	resolver := filesystem.NewClasspathResolver()
	ledgerRepo := sqlite.NewLedgerRepository(database)

	discoveryService = app.NewDiscoveryService(classDir)
	patchService = app.NewPatchService(discoveryService, resolver, classDir, ledgerRepo)
	registrarService = app.NewRegistrarService(resolver, classDir, filesystem.NewRegistryFileWriter(), ledgerRepo)
	ledgerService = app.NewLedgerService(ledgerRepo)
}
