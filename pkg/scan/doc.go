// Package scan finds top-level brace-delimited objects in relaxed JSON text.
//
// # Overview
//
// Keyboard layout dumps often arrive as several JSON-ish objects pasted into
// one file, sometimes inside an extra pair of braces, separated by commas,
// comments or nothing at all. A standard decoder rejects such input outright.
// This package walks the raw text once and returns every balanced {...} span
// that closes at nesting depth zero, in the order its closing brace appears.
//
// # String Awareness
//
// Braces inside string literals never change the nesting depth. Both double
// and single quotes open a string, and only the quote that opened it closes
// it, so text like
//
//	{"label": "}"} {'name': "it's {fine}"}
//
// yields exactly two spans. Inside a string a backslash escapes the next
// character, whatever it is.
//
// # Tolerance
//
// The scanner never fails:
//   - A closing brace at depth zero is ignored (see [Result.Unmatched]).
//   - An object still open at the end of input is dropped (see [Result.Depth]).
//
// # Limitations
//
// Comments are not recognized. A brace or quote inside a // or /* */ comment
// is treated like any other character and can shift span boundaries. Comment
// removal happens later, per span, in package sanitize.
//
// Wrapping input in one more pair of braces turns the wrapper into the only
// top-level object: Extract("{" + X + "}") returns a single span containing X,
// not the objects of X. Callers that expect a wrapper should extract again
// from the inner text.
package scan
