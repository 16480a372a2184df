package foundation

import "testing"

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(map[string]int{"one": 1, "Two": 2}, 0)

	if got := n.Normalize(" ONE "); got != 1 {
		t.Errorf("Normalize = %d, want 1", got)
	}
	if got := n.Normalize("two"); got != 2 {
		t.Errorf("Normalize = %d, want 2", got)
	}
	if got := n.Normalize("three"); got != 0 {
		t.Errorf("Normalize of unknown = %d, want default 0", got)
	}

	if _, err := n.NormalizeWithError("three"); err == nil {
		t.Error("NormalizeWithError of unknown should fail")
	}
	if v, err := n.NormalizeWithError("One"); err != nil || v != 1 {
		t.Errorf("NormalizeWithError = %d, %v", v, err)
	}
}
