package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the algotex CLI.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the CLI, checked against [tool].min_version.
	Version = "0.1.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric part in its own colour.
// Versions that are not major.minor.patch are returned as is.
func Colored(enabled bool) string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if !enabled || len(parts) != 3 {
		return Version
	}
	paint := func(c *color.Color, s string) string {
		c.EnableColor()
		return c.Sprint(s)
	}
	out := paint(versionMajorColor, parts[0]) + "." +
		paint(versionMinorColor, parts[1]) + "." +
		paint(versionPatchColor, parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Info is the multi-line `algotex version` output.
func Info(colored bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "algotex %s\n", Colored(colored))
	if GitCommit != "" {
		fmt.Fprintf(&b, "commit:  %s", GitCommit)
		if GitMessage != "" {
			fmt.Fprintf(&b, " (%s)", GitMessage)
		}
		b.WriteByte('\n')
	}
	if BuildDate != "" {
		fmt.Fprintf(&b, "built:   %s\n", BuildDate)
	}
	return b.String()
}
