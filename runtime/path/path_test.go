package path

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromSpecSingleKey(t *testing.T) {
	got := FromSpec("name")

	want := Path{F("name")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSpecMixedSegments(t *testing.T) {
	got := FromSpec([]any{"a", 0, []any{1, 2}})

	want := Path{F("a"), F(0), C(1, 2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMapKey(t *testing.T) {
	root := map[string]any{"a": 1}

	got, err := Get(root, FromSpec("a"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != 1 {
		t.Errorf("Get() = %v, want 1", got)
	}
}

func TestGetAbsentMapKeyReadsNil(t *testing.T) {
	root := map[string]any{}

	got, err := Get(root, FromSpec("missing"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil", got)
	}
}

func TestGetNestedMapsAndSlices(t *testing.T) {
	root := map[string]any{
		"list": []any{
			map[string]any{"x": "found"},
		},
	}

	got, err := Get(root, FromSpec([]any{"list", 0, "x"}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "found" {
		t.Errorf("Get() = %v, want found", got)
	}
}

func TestGetSliceIndexOutOfRange(t *testing.T) {
	root := map[string]any{"list": []any{1}}

	_, err := Get(root, FromSpec([]any{"list", 5}))
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out-of-range error, got %v", err)
	}
}

type point struct {
	X int
	Y int
}

func TestGetStructField(t *testing.T) {
	root := map[string]any{"p": point{X: 3, Y: 4}}

	got, err := Get(root, FromSpec([]any{"p", "Y"}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != 4 {
		t.Errorf("Get() = %v, want 4", got)
	}
}

type greeter struct {
	name string
}

func (g *greeter) Greet(prefix string) string {
	return prefix + " " + g.name
}

// TestCallSegmentInvokesBoundMethod verifies a Call segment invokes the
// method bound by the preceding Field segment and navigation continues from
// its result.
func TestCallSegmentInvokesBoundMethod(t *testing.T) {
	root := map[string]any{"g": &greeter{name: "world"}}

	got, err := Get(root, FromSpec([]any{"g", "Greet", []any{"hello"}}))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "hello world" {
		t.Errorf("Get() = %v, want hello world", got)
	}
}

func TestInvokeMethodPath(t *testing.T) {
	root := map[string]any{"g": &greeter{name: "there"}}

	got, err := Invoke(root, FromSpec([]any{"g", "Greet"}), []any{"hi"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "hi there" {
		t.Errorf("Invoke() = %v, want hi there", got)
	}
}

func TestInvokeNonFunction(t *testing.T) {
	root := map[string]any{"n": 1}

	_, err := Invoke(root, FromSpec("n"), nil)
	if err == nil || !strings.Contains(err.Error(), "non-function") {
		t.Errorf("expected non-function error, got %v", err)
	}
}

// TestSetGetRoundTrip verifies the path law: after Set(P, V) on scope S,
// Get(P) from S returns V.
func TestSetGetRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		root any
		spec any
		val  any
	}{
		{"top-level key", map[string]any{}, "k", 10},
		{"nested key", map[string]any{"m": map[string]any{}}, []any{"m", "k"}, "deep"},
		{"slice element", map[string]any{"l": []any{0, 0}}, []any{"l", 1}, 9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := FromSpec(tc.spec)
			if err := Set(tc.root, p, tc.val); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := Get(tc.root, p)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if diff := cmp.Diff(tc.val, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetStructFieldThroughPointer(t *testing.T) {
	pt := &point{}
	root := map[string]any{"p": pt}

	if err := Set(root, FromSpec([]any{"p", "X"}), 7); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if pt.X != 7 {
		t.Errorf("X = %d, want 7", pt.X)
	}
}

func TestSetRejectsCallSegmentTarget(t *testing.T) {
	err := Set(map[string]any{}, Path{F("f"), C()}, 1)
	if err == nil || !strings.Contains(err.Error(), "call") {
		t.Errorf("expected final-segment error, got %v", err)
	}
}

func TestDeleteMapKey(t *testing.T) {
	root := map[string]any{"a": 1, "b": 2}

	if err := Delete(root, FromSpec("a")); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if diff := cmp.Diff(map[string]any{"b": 2}, root); diff != "" {
		t.Errorf("map mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteSliceElementZeroes(t *testing.T) {
	root := map[string]any{"l": []any{1, 2, 3}}

	if err := Delete(root, FromSpec([]any{"l", 1})); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if diff := cmp.Diff(map[string]any{"l": []any{1, nil, 3}}, root); diff != "" {
		t.Errorf("slice mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteEmptyPath(t *testing.T) {
	if err := Delete(map[string]any{}, nil); err == nil {
		t.Error("expected error for empty path")
	}
}

// TestCallValueResultShapes verifies multi-return and error-return mapping
// through reflected calls.
func TestCallValueResultShapes(t *testing.T) {
	root := map[string]any{
		"pair":  func() (int, string) { return 1, "two" },
		"fails": func() (int, error) { return 0, errString("boom") },
	}

	got, err := Invoke(root, FromSpec("pair"), nil)
	if err != nil {
		t.Fatalf("Invoke(pair) error = %v", err)
	}
	if diff := cmp.Diff([]any{1, "two"}, got); diff != "" {
		t.Errorf("pair result mismatch (-want +got):\n%s", diff)
	}

	_, err = Invoke(root, FromSpec("fails"), nil)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected boom error, got %v", err)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
