package participant

import "testing"

func TestNameKey(t *testing.T) {
	t.Parallel()

	if NameKey("  Max Verstappen ") != NameKey("max verstappen") {
		t.Fatalf("name keys must match case-insensitively")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := (Participant{ID: "p1", Name: "Max"}).Validate(); err != nil {
		t.Fatalf("expected valid participant, got %v", err)
	}
	if err := (Participant{ID: "p1", Name: " "}).Validate(); err == nil {
		t.Fatalf("expected error for blank name")
	}
}
