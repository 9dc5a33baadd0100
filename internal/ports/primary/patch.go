package primary

import "context"

// PatchService injects timeout rule fields into compiled test classes.
type PatchService interface {
	// Patch discovers test classes and applies the timeout field to each.
	// A nil ThresholdMillis short-circuits the whole run as a no-op.
	Patch(ctx context.Context, req PatchRequest) (*PatchResponse, error)
}

// PatchRequest configures one patch pass.
type PatchRequest struct {
	ClassesDir      string
	Classpath       []string
	Suffixes        []string
	IgnorePatterns  []string
	ThresholdMillis *int64
	DryRun          bool
	Parallelism     int // <= 0 means one worker per CPU
}

// PatchResponse summarizes one patch pass.
type PatchResponse struct {
	// NoOp is true when no threshold was configured and nothing was
	// touched.
	NoOp     bool
	Outcomes []PatchOutcome
}

// PatchOutcome describes the result for one candidate class. Results keep
// discovery order.
type PatchOutcome struct {
	ClassName string
	Path      string
	FieldName string
	// Skipped is true when the guard reported the class as already
	// patched and no write happened.
	Skipped bool
	// GuardNote carries the logged (non-fatal) idempotency lookup miss.
	GuardNote string
	DryRun    bool
}
