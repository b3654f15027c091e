package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the tokflow CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with major, minor and patch in distinct colours.
// A version that is not dotted is returned as is.
func Colored(enabled bool) string {
	parts := strings.SplitN(Version, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	colors := []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor}
	patch, suffix, _ := strings.Cut(parts[2], "-")
	parts[2] = patch
	for i, c := range colors {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		parts[i] = c.Sprint(parts[i])
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Long is the multi-line form printed by "tokflow version".
func Long(enabled bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tokflow %s\n", Colored(enabled))
	if GitCommit != "" {
		fmt.Fprintf(&sb, "commit: %s\n", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "built:  %s\n", BuildDate)
	}
	return sb.String()
}
