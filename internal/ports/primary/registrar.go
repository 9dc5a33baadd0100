package primary

import "context"

// RegistrarService installs the JUnit 5 global timeout extension: it writes
// the service registration file, copies the pre-built extension classes into
// the test output, and computes the runtime hand-off property.
type RegistrarService interface {
	// Register performs the installation. It is a no-op unless the
	// secondary framework is present and a threshold is configured.
	// Registration is all-or-nothing: any failing step fails the call.
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterRequest configures one registration.
type RegisterRequest struct {
	// Junit5Present is supplied by the caller; the registrar never probes
	// the classpath for framework presence itself.
	Junit5Present   bool
	ThresholdMillis *int64
	ResourcesDir    string
	ClassesDir      string
	Classpath       []string
}

// RegisterResponse reports what was installed.
type RegisterResponse struct {
	NoOp          bool
	RegistryFile  string
	CopiedClasses []string
	Property      SystemProperty
}

// SystemProperty is the process-level key/value handed to the test JVM so
// the copied extension can read the threshold at runtime.
type SystemProperty struct {
	Key   string
	Value string
}
