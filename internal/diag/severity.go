package diag

import "fmt"

// Severity ranks a diagnostic. The order is significant: Bag.Sort lists the
// higher severity first at a shared position, and anything at SevError or
// above keeps the driver from emitting LLVM IR.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]struct{ upper, lower string }{
	SevInfo:    {"INFO", "info"},
	SevWarning: {"WARNING", "warning"},
	SevError:   {"ERROR", "error"},
}

// String is the label used by the pretty and JSON renderers.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s].upper
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

// Label is the lowercase form of the short format. Unknown values read as
// errors so they are never mistaken for something harmless.
func (s Severity) Label() string {
	if int(s) < len(severityNames) {
		return severityNames[s].lower
	}
	return severityNames[SevError].lower
}

// Blocking reports whether the diagnostic fails the crate.
func (s Severity) Blocking() bool { return s >= SevError }
