// Package record defines the normalized key record and converts parsed
// layout objects into it.
//
// # Record Format
//
// Every record has exactly six keys, always in this order:
//
//	{"matrix":[row,col],"x":0,"y":0,"r":0,"rx":0,"ry":0}
//
// row and col are copied from the source object without any type coercion,
// so a layout that uses strings for matrix positions keeps them. The five
// geometry fields come from the source's nested "state" object and default
// to 0 when absent.
//
// # Source Format
//
//	{"row": 2, "col": 5, "state": {"x": 1, "y": 0.5, "r": 15, "rx": 1, "ry": 0.5}}
//
// Any other keys are ignored.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one normalized key. Values are kept as raw JSON so numbers are
// written back exactly as they were read.
type Record struct {
	Matrix [2]json.RawMessage `json:"matrix"`
	X      json.RawMessage    `json:"x"`
	Y      json.RawMessage    `json:"y"`
	R      json.RawMessage    `json:"r"`
	RX     json.RawMessage    `json:"rx"`
	RY     json.RawMessage    `json:"ry"`
}

// Row returns the first matrix element.
func (r Record) Row() json.RawMessage { return r.Matrix[0] }

// Col returns the second matrix element.
func (r Record) Col() json.RawMessage { return r.Matrix[1] }

// Key returns the sort key of r.
func (r Record) Key() (Key, error) {
	return NewKey(r.Matrix[0], r.Matrix[1])
}

// zero is the default for absent geometry fields.
var zero = json.RawMessage("0")

// compact returns raw with insignificant whitespace removed and its string
// literals rewritten by decodeStrings. Invalid input is returned unchanged;
// callers only pass values the decoder accepted.
func compact(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	out := buf.Bytes()
	if bytes.IndexByte(out, '\\') < 0 {
		return json.RawMessage(out)
	}
	decoded, err := decodeStrings(out)
	if err != nil {
		return json.RawMessage(out)
	}
	return json.RawMessage(decoded)
}

// decodeStrings re-encodes every string literal in the compact JSON text b
// without HTML escaping, so "caf\u00e9" becomes "café". Numbers and
// literals are copied as written.
func decodeStrings(b []byte) ([]byte, error) {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	for i := 0; i < len(b); {
		if b[i] != '"' {
			out.WriteByte(b[i])
			i++
			continue
		}
		j := i + 1
		for j < len(b) && b[j] != '"' {
			if b[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(b) {
			return nil, fmt.Errorf("unterminated string at offset %d", i)
		}
		var s string
		if err := json.Unmarshal(b[i:j+1], &s); err != nil {
			return nil, err
		}
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		out.Truncate(out.Len() - 1) // Encode appends a newline
		i = j + 1
	}
	return out.Bytes(), nil
}

// isNull reports whether raw is absent or the JSON literal null.
func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
