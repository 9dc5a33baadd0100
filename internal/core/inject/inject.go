// Package inject contains the pure logic for synthesizing the timeout rule
// field that gets added to compiled test classes, and the guard that decides
// whether a class was already patched.
package inject

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/classguard/internal/core/classfile"
)

// JUnit 4 binding: the injected field is a Timeout rule managed per test by
// the @Rule lifecycle.
const (
	TimeoutRuleClass      = "org.junit.rules.Timeout"
	TimeoutRuleDescriptor = "Lorg/junit/rules/Timeout;"
	RuleAnnotationClass   = "org.junit.Rule"
	RuleAnnotationDesc    = "Lorg/junit/Rule;"
)

// JUnit 5 binding: a global extension registered through the standard
// service discovery mechanism, plus the invocation wrapper it depends on.
const (
	ExtensionInterface = "org.junit.jupiter.api.extension.Extension"
	ExtensionClass     = "com.example.classguard.junit5.GlobalTimeoutExtension"
	InvocationClass    = "com.example.classguard.junit5.TimeoutInvocation"

	// TimeoutPropertyKey is the process-level property through which the
	// copied extension reads the threshold at test runtime.
	TimeoutPropertyKey = "classguard.DEFAULT_TEST_TIMEOUT"
)

// AnnotationSpec describes the runtime-visible marker attached to the
// injected field.
type AnnotationSpec struct {
	TypeFQN        string
	TypeDescriptor string
}

// FieldSpec describes one field to inject into a class.
type FieldSpec struct {
	OwnerClass     string
	FieldName      string
	TypeFQN        string
	TypeDescriptor string
	Initializer    string
	Annotation     AnnotationSpec
}

// NewFieldSpec builds the spec for a timeout rule field bounded by the given
// threshold. The field name embeds a freshly generated random suffix on
// every call, so two invocations never produce the same name (see
// AlreadyPatched for the consequence).
func NewFieldSpec(ownerClass string, thresholdMillis int64) FieldSpec {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "_")
	return FieldSpec{
		OwnerClass:     ownerClass,
		FieldName:      fmt.Sprintf("%s_timeout_%s", simpleName(ownerClass), suffix),
		TypeFQN:        TimeoutRuleClass,
		TypeDescriptor: TimeoutRuleDescriptor,
		Initializer: fmt.Sprintf("new %s(%dL, java.util.concurrent.TimeUnit.MILLISECONDS)",
			TimeoutRuleClass, thresholdMillis),
		Annotation: AnnotationSpec{
			TypeFQN:        RuleAnnotationClass,
			TypeDescriptor: RuleAnnotationDesc,
		},
	}
}

// simpleName returns the class name without its package qualifier.
func simpleName(fqn string) string {
	if idx := strings.LastIndex(fqn, "."); idx >= 0 {
		return fqn[idx+1:]
	}
	return fqn
}

// ErrFieldNotFound is the lookup miss reported by AlreadyPatched. It is the
// only recoverable error in the patch pipeline: callers log it and treat the
// class as not yet patched.
var ErrFieldNotFound = fmt.Errorf("timeout field not found")

// AlreadyPatched reports whether the class already carries a timeout field.
//
// The check derives a candidate name with the same naming rule as
// NewFieldSpec. Because that rule embeds a fresh random suffix, the lookup
// misses even when an earlier run did inject a field, so the result is
// effectively always (false, ErrFieldNotFound) and repeated runs keep adding
// fields. This replicates the long-standing behavior downstream consumers
// see today; do not "fix" the naming here without revisiting the callers.
func AlreadyPatched(c *classfile.Class, ownerClass string, thresholdMillis int64) (bool, error) {
	candidate := NewFieldSpec(ownerClass, thresholdMillis)
	if c.HasField(candidate.FieldName) {
		return true, nil
	}
	return false, fmt.Errorf("%w: %s on %s", ErrFieldNotFound, candidate.FieldName, ownerClass)
}
