package components

import "testing"

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k.String(), err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
}

func TestParseKindUnknown(t *testing.T) {
	if _, err := ParseKind("wolf"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
