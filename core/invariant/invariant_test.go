package invariant_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stepflow-lang/stepflow/core/invariant"
)

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "this should pass")
	invariant.Precondition(len("hello") > 0, "string not empty")
}

func TestPreconditionFail(t *testing.T) {
	defer expectViolation(t, "PRECONDITION VIOLATION", "cursor must not be nil")
	invariant.Precondition(false, "cursor must not be nil")
}

func TestPostconditionFail(t *testing.T) {
	defer expectViolation(t, "POSTCONDITION VIOLATION", "collection must not shrink")
	invariant.Postcondition(false, "collection must not shrink")
}

func TestInvariantFail(t *testing.T) {
	defer expectViolation(t, "INVARIANT VIOLATION", "cursor must advance")
	invariant.Invariant(false, "cursor must advance")
}

func TestNotNilPassesOnValues(t *testing.T) {
	invariant.NotNil(42, "number")
	invariant.NotNil("", "empty string is still a value")
	invariant.NotNil([]int{}, "empty slice")
}

func TestNotNilCatchesTypedNil(t *testing.T) {
	defer expectViolation(t, "PRECONDITION VIOLATION", "step must not be nil")
	var p *int
	invariant.NotNil(p, "step")
}

func TestInRange(t *testing.T) {
	invariant.InRange(3, 0, 5, "index")

	defer expectViolation(t, "PRECONDITION VIOLATION", "index must be in range")
	invariant.InRange(7, 0, 5, "index")
}

func TestExpectNoError(t *testing.T) {
	invariant.ExpectNoError(nil, "clean operation")

	defer expectViolation(t, "POSTCONDITION VIOLATION", "doomed operation")
	invariant.ExpectNoError(fmt.Errorf("boom"), "doomed operation")
}

// expectViolation is used as the deferred function itself, so the recover
// here observes the panic raised by the assertion under test.
func expectViolation(t *testing.T, kind, message string) {
	t.Helper()
	r := recover()
	if r == nil {
		t.Fatalf("expected %s panic", kind)
	}
	msg := fmt.Sprintf("%v", r)
	if !strings.Contains(msg, kind) {
		t.Errorf("expected %s, got: %s", kind, msg)
	}
	if !strings.Contains(msg, message) {
		t.Errorf("expected message %q, got: %s", message, msg)
	}
	if !strings.Contains(msg, "at ") {
		t.Errorf("expected failure site, got: %s", msg)
	}
}
