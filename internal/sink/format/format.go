// Package format implements the envelope rendering modes and their
// selection logic.
package format

import "strings"

// Format represents an output rendering mode.
type Format string

const (
	// Structured renders a bordered multi-line block per envelope.
	Structured Format = "structured"
	// Compact renders one timestamped line per envelope.
	Compact Format = "compact"
	// JSON renders the whole envelope as an indented JSON blob.
	JSON Format = "json"
	// Simple renders one "Message #n" line per envelope.
	Simple Format = "simple"
)

// Default is the mode used when the selector is absent or unrecognized.
const Default = Structured

var formats = []Format{Structured, Compact, JSON, Simple}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat resolves a selector string. Matching is case-insensitive;
// unknown or empty selectors fall back to Default rather than failing, by
// contract with the orchestrator.
func ParseFormat(s string) Format {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, f := range formats {
		if string(f) == normalized {
			return f
		}
	}
	return Default
}

// Known reports whether s names a supported format, case-insensitively.
func Known(s string) bool {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, f := range formats {
		if string(f) == normalized {
			return true
		}
	}
	return false
}
