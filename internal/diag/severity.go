package diag

import "strings"

// Severity orders diagnostics from informational to fatal.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{"info", "warning", "error"}

// String is the upper-case form used in pretty and JSON output.
func (s Severity) String() string {
	return strings.ToUpper(s.Label())
}

// Label is the lower-case form used by the one-line formatter.
func (s Severity) Label() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}
