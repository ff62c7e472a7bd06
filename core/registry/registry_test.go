package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/artpar/fieldprop/core/field"
)

func bound(t *testing.T, name string) *field.Descriptor {
	t.Helper()
	d := field.New(field.Config{Default: 0})
	if err := d.Bind(name); err != nil {
		t.Fatalf("Bind(%q) error = %v", name, err)
	}
	return d
}

func TestNew(t *testing.T) {
	a := bound(t, "a")
	b := bound(t, "b")

	r, err := New([]*field.Descriptor{a, b})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if got, ok := r.Get("a"); !ok || got != a {
		t.Error("Get(a) should return the registered descriptor")
	}
	if r.Has("c") {
		t.Error("Has(c) should be false")
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New([]*field.Descriptor{field.New(field.Config{})}); err == nil {
		t.Error("New() should reject an unbound descriptor")
	}
	if _, err := New([]*field.Descriptor{bound(t, "a"), bound(t, "a")}); err == nil {
		t.Error("New() should reject duplicate names")
	}
}

func TestMerge_OrderAndOverride(t *testing.T) {
	parentA := bound(t, "a")
	parentB := bound(t, "b")
	parent, err := New([]*field.Descriptor{parentA, parentB})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	childB := bound(t, "b")
	childC := bound(t, "c")
	own, err := New([]*field.Descriptor{childB, childC})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	merged := Merge([]*Registry{parent}, own)

	// Overridden names keep their original position.
	if diff := cmp.Diff([]string{"a", "b", "c"}, merged.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if got, _ := merged.Get("b"); got != childB {
		t.Error("Get(b) should resolve to the most-derived descriptor")
	}
	if got, _ := merged.Get("a"); got != parentA {
		t.Error("Get(a) should resolve to the inherited descriptor")
	}

	// Inputs stay untouched.
	if got, _ := parent.Get("b"); got != parentB {
		t.Error("Merge() mutated the parent registry")
	}
	if parent.Len() != 2 || own.Len() != 2 {
		t.Error("Merge() changed an input's length")
	}
}

func TestMerge_MultipleParents(t *testing.T) {
	firstX := bound(t, "x")
	first, _ := New([]*field.Descriptor{firstX})
	secondX := bound(t, "x")
	secondY := bound(t, "y")
	second, _ := New([]*field.Descriptor{secondX, secondY})

	merged := Merge([]*Registry{first, second}, nil)
	if diff := cmp.Diff([]string{"x", "y"}, merged.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	// Later bases win, like a left-to-right table update.
	if got, _ := merged.Get("x"); got != secondX {
		t.Error("Get(x) should resolve to the later base")
	}
}

func TestNames_ReturnsCopy(t *testing.T) {
	r, _ := New([]*field.Descriptor{bound(t, "a")})
	names := r.Names()
	names[0] = "mutated"
	if r.Names()[0] != "a" {
		t.Error("mutating the returned slice should not affect the registry")
	}
}

func TestEmpty(t *testing.T) {
	r := Empty()
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if r.Has("a") {
		t.Error("empty registry should have no fields")
	}
}
