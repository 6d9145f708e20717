package version

import "testing"

func TestString(t *testing.T) {
	oldV, oldC, oldB := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = oldV, oldC, oldB })

	Version, Commit, BuildDate = "1.2.0", "abc123", "2026-01-02"
	want := "1.2.0 (commit: abc123, built: 2026-01-02)"
	if got := String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
