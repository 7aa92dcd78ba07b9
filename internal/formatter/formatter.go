package formatter

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonenv/internal/flattener"
)

// Output styles.
const (
	// StyleRaw writes KEY=VALUE with the value verbatim, no quoting.
	StyleRaw = "raw"
	// StyleDotenv quotes string values and escapes embedded double quotes,
	// the way .env consumers expect. Null renders as the bare word null.
	StyleDotenv = "dotenv"
)

// ValidateStyle reports whether style names a known output style.
func ValidateStyle(style string) error {
	switch style {
	case StyleRaw, StyleDotenv:
		return nil
	default:
		return fmt.Errorf("unknown output style %q", style)
	}
}

// Formatter renders flattened entries as newline-joined text
type Formatter struct {
	style string
}

// New creates a Formatter for the given style
func New(style string) *Formatter {
	return &Formatter{style: style}
}

// Format renders one line per entry, in entry order, joined with \n and ending
// with a trailing newline. An empty entry list renders as the empty string.
// It is a total function and never fails.
//
// Values containing raw newlines are written as-is; what downstream env-file
// consumers make of them is their problem, not ours to escape.
func (f *Formatter) Format(entries []flattener.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.Key)
		b.WriteByte('=')
		b.WriteString(f.renderValue(entry))
		b.WriteByte('\n')
	}
	return b.String()
}

func (f *Formatter) renderValue(entry flattener.Entry) string {
	if f.style != StyleDotenv {
		return entry.Value
	}
	if entry.IsString {
		return `"` + strings.ReplaceAll(entry.Value, `"`, `\"`) + `"`
	}
	// The only non-string entry with an empty value is null: booleans and
	// numbers always render at least one character.
	if entry.Value == "" {
		return "null"
	}
	return entry.Value
}
