// Package io reads and writes normalized key records as JSON Lines.
//
// # Format
//
// One compact JSON object per line, terminated by "\n":
//
//	{"matrix":[0,0],"x":0,"y":0,"r":0,"rx":0,"ry":0}
//	{"matrix":[0,1],"x":1,"y":0,"r":0,"rx":0,"ry":0}
//
// Output is UTF-8. Non-ASCII characters and HTML-sensitive characters
// (<, >, &) are written as-is rather than as \u escapes.
//
// # Writing
//
// Use [NewWriter] to stream records to any io.Writer in the order they are
// produced, or [ExportJSONL] to write already-read lines to a file.
//
// # Reading
//
// [ReadJSONL] and [ImportJSONL] load an entire file into memory. Reading is
// strict: every line must be a JSON object with an orderable "matrix" pair,
// and the first bad line aborts the read with an ErrCodeSortParse error that
// names the line number. A single final newline is allowed; any other empty
// line is an error.
//
// # Sorting
//
// [SortLines] orders lines by matrix row, then column, keeping the input
// order of equal keys. Lines keep their original bytes (minus insignificant
// whitespace), so sorting an already sorted file reproduces it exactly.
package io
