package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColoredKeepsSuffix(t *testing.T) {
	saved, savedNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = saved, savedNoColor }()
	color.NoColor = true

	Version = "1.2.3-rc1"
	if got := Colored(); got != "1.2.3-rc1" {
		t.Fatalf("Colored() = %q", got)
	}
	Version = "weird"
	if got := Colored(); got != "weird" {
		t.Fatalf("Colored() = %q, want the raw version", got)
	}
}

func TestDescribeOptionalFields(t *testing.T) {
	savedV, savedC, savedD := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = savedV, savedC, savedD }()

	Version, GitCommit, BuildDate = "0.3.0", "", ""
	out := Describe(false)
	if !strings.HasPrefix(out, "cool 0.3.0 (") {
		t.Fatalf("unexpected first line: %q", out)
	}
	if strings.Contains(out, "commit:") || strings.Contains(out, "built:") {
		t.Fatalf("empty fields must be omitted: %q", out)
	}

	GitCommit, BuildDate = "abc123", "2026-01-02T03:04:05Z"
	out = Describe(false)
	for _, want := range []string{"commit: abc123", "built:  2026-01-02T03:04:05Z"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}
