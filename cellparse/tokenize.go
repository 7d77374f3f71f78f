// Package cellparse implements the field parsers (spec.md component C2):
// one pure function per AT response line shape, each mapping a single
// line — already known to belong to a particular command — to a typed
// celltypes record. Every parser tolerates the whitespace/quote variance
// real modem firmware exhibits and fully initialises its output before
// returning, so a malformed line yields a sentinel-filled record and
// false rather than a partial one.
package cellparse

import (
	"strings"

	"github.com/binsentry/cellular-bg770/info"
)

// stripPrefix removes a leading command prefix (e.g. "+QCSQ:") from line,
// tolerating leading whitespace before the prefix and after the colon. It
// reports false if line does not begin with prefix once trimmed. The actual
// prefix/trim logic is info.HasPrefix/info.TrimPrefix, which key off the
// command name rather than the trailing colon baked into prefix here.
func stripPrefix(line, prefix string) (string, bool) {
	line = strings.TrimSpace(line)
	cmd := strings.TrimSuffix(prefix, ":")
	if !info.HasPrefix(line, cmd) {
		return "", false
	}
	return info.TrimPrefix(line, cmd), true
}

// splitFields splits a comma-separated response body into its fields,
// stripping surrounding double quotes and whitespace from each one. Commas
// inside a quoted field are not treated as separators.
func splitFields(s string) []string {
	var out []string
	inQuotes := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				out = append(out, unquoteTrim(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, unquoteTrim(s[start:]))
	return out
}

func unquoteTrim(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// field returns tokens[i], or "" if out of range, so positional parsers can
// be written without repeated bounds checks.
func field(tokens []string, i int) string {
	if i < 0 || i >= len(tokens) {
		return ""
	}
	return tokens[i]
}
