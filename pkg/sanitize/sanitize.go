// Package sanitize turns a relaxed JSON object span into text a strict JSON
// decoder accepts.
//
// Cleaning happens in a fixed order:
//
//  1. Block comments /* ... */ are removed (shortest match, across newlines).
//  2. Line comments are removed from // to the end of the line.
//  3. Commas followed only by whitespace and a closing } or ] are removed,
//     repeatedly, until the text stops changing.
//
// # Limitations
//
// None of these steps know about string literals. A URL such as
// "http://example.com" inside a value loses everything after the //, and a
// string holding ",]" loses its comma. This matches the behavior of the
// layout dumps this tool was written for and is kept on purpose; spans whose
// strings get damaged usually fail to parse and are reported by the caller.
package sanitize

import (
	"regexp"

	"github.com/matzehuels/kbmatrix/pkg/errors"
)

var (
	blockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment   = regexp.MustCompile(`//[^\n]*`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
)

// Clean strips comments and trailing commas from s.
// Clean is idempotent, Clean(Clean(s)) == Clean(s), as long as comment
// markers in s do not overlap ("//*" style sequences).
func Clean(s string) (string, error) {
	return RemoveTrailingCommas(StripComments(s))
}

// StripComments removes /* block */ comments first and // line comments
// second. The newline ending a line comment is kept.
func StripComments(s string) string {
	s = blockComment.ReplaceAllString(s, "")
	return lineComment.ReplaceAllString(s, "")
}

// RemoveTrailingCommas deletes every comma that is followed, after optional
// whitespace, by a closing brace or bracket. Removing one comma can expose
// another (",,}" or nested cleanups), so the rewrite runs to a fixed point.
//
// Each productive pass shortens the text, so the loop is bounded by the input
// length; running past that bound is reported as an internal error.
func RemoveTrailingCommas(s string) (string, error) {
	n := len(s)
	for i := 0; i <= n; i++ {
		next := trailingComma.ReplaceAllString(s, "$1")
		if next == s {
			return s, nil
		}
		s = next
	}
	return "", errors.New(errors.ErrCodeInternal, "trailing comma removal did not converge")
}
