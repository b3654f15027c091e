package version

import (
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColoredWithoutColor(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(false); got != tt.want {
			t.Errorf("Colored(false) for %q = %q", tt.version, got)
		}
	}
}

func TestLongIncludesOptionalFields(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3", "abc123", ""
	want := "tokflow 1.2.3\ncommit: abc123\n"
	if got := Long(false); got != want {
		t.Fatalf("Long = %q, want %q", got, want)
	}
}
