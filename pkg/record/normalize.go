package record

import (
	"encoding/json"

	"github.com/matzehuels/kbmatrix/pkg/errors"
)

// SnippetLen is the number of characters of offending text kept in
// diagnostics.
const SnippetLen = 300

// geometry lists the state fields copied into a Record, in output order.
var geometry = [...]string{"x", "y", "r", "rx", "ry"}

// Normalize parses sanitized object text and builds its Record.
//
// Failures carry a code from package errors:
//   - ErrCodeObjectParse: text is not a valid JSON object
//   - ErrCodeMissingField: row or col is absent or null
//   - ErrCodeInvalidState: state is present but not an object
//
// A null state is treated like a missing one. Geometry fields present in
// state are copied as written, including explicit nulls. Whitespace is
// dropped and escaped characters in strings are decoded.
func Normalize(text string) (Record, error) {
	var src map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &src); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeObjectParse, err, "invalid JSON object")
	}

	row, col := src["row"], src["col"]
	switch {
	case isNull(row) && isNull(col):
		return Record{}, errors.New(errors.ErrCodeMissingField, "missing row/col")
	case isNull(row):
		return Record{}, errors.New(errors.ErrCodeMissingField, "missing row")
	case isNull(col):
		return Record{}, errors.New(errors.ErrCodeMissingField, "missing col")
	}

	var state map[string]json.RawMessage
	if raw := src["state"]; !isNull(raw) {
		if err := json.Unmarshal(raw, &state); err != nil {
			return Record{}, errors.Wrap(errors.ErrCodeInvalidState, err, "state is not an object")
		}
	}

	var vals [len(geometry)]json.RawMessage
	for i, k := range geometry {
		if v, ok := state[k]; ok {
			vals[i] = compact(v)
		} else {
			vals[i] = zero
		}
	}

	return Record{
		Matrix: [2]json.RawMessage{compact(row), compact(col)},
		X:      vals[0],
		Y:      vals[1],
		R:      vals[2],
		RX:     vals[3],
		RY:     vals[4],
	}, nil
}

// Snippet returns the first SnippetLen characters of s.
func Snippet(s string) string {
	n := 0
	for i := range s {
		if n == SnippetLen {
			return s[:i]
		}
		n++
	}
	return s
}
