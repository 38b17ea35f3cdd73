package typeid

import (
	"strings"
	"testing"
)

func TestNewObjectIDHasPrefix(t *testing.T) {
	id := NewObjectID()
	if !strings.HasPrefix(id, PrefixObject+"_") {
		t.Fatalf("expected %q prefix, got %q", PrefixObject, id)
	}
	if err := Validate(id, PrefixObject); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsWrongPrefix(t *testing.T) {
	id := NewTemplateID()
	if err := Validate(id, PrefixObject); err == nil {
		t.Fatalf("expected prefix mismatch for %q", id)
	}
	if err := Validate("not-a-typeid", PrefixObject); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewObjectID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
