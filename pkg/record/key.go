package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// Kind classifies a matrix coordinate.
type Kind int

const (
	KindNull   Kind = iota + 1
	KindNumber      // numbers and booleans (false=0, true=1)
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a decoded matrix coordinate.
//
// Any JSON value is accepted. Whether two values can be ordered is only
// decided when they are compared: numbers order numerically (exactly),
// strings by code point, arrays element by element. Equal values never
// need ordering, whatever their kind.
type Value struct {
	kind   Kind
	num    *big.Rat
	str    string
	elems  []Value
	fields map[string]Value
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// ParseValue decodes a raw JSON coordinate.
func ParseValue(raw json.RawMessage) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return Value{}, err
	}
	return fromAny(x)
}

func fromAny(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Value{kind: KindNull}, nil
	case bool:
		n := new(big.Rat)
		if x {
			n.SetInt64(1)
		}
		return Value{kind: KindNumber, num: n}, nil
	case json.Number:
		n, ok := new(big.Rat).SetString(x.String())
		if !ok {
			return Value{}, fmt.Errorf("invalid number %q", x)
		}
		return Value{kind: KindNumber, num: n}, nil
	case string:
		return Value{kind: KindString, str: x}, nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			v, err := fromAny(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Value{kind: KindArray, elems: elems}, nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, e := range x {
			v, err := fromAny(e)
			if err != nil {
				return Value{}, err
			}
			fields[k] = v
		}
		return Value{kind: KindObject, fields: fields}, nil
	}
	return Value{}, fmt.Errorf("unexpected JSON value %T", x)
}

// Equal reports whether v and o hold the same value. Numbers are equal when
// numerically equal, so 1, 1.0 and true are all equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindNumber:
		return v.num.Cmp(o.num) == 0
	case KindString:
		return v.str == o.str
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for k, f := range v.fields {
			g, ok := o.fields[k]
			if !ok || !f.Equal(g) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare returns -1, 0 or +1. It fails when v and o differ but have no
// order: different kinds, nulls or objects.
func (v Value) Compare(o Value) (int, error) {
	if v.Equal(o) {
		return 0, nil
	}
	if v.kind != o.kind {
		return 0, fmt.Errorf("cannot order %s and %s", v.kind, o.kind)
	}
	switch v.kind {
	case KindNumber:
		return v.num.Cmp(o.num), nil
	case KindString:
		return strings.Compare(v.str, o.str), nil
	case KindArray:
		for i := 0; i < len(v.elems) && i < len(o.elems); i++ {
			if v.elems[i].Equal(o.elems[i]) {
				continue
			}
			return v.elems[i].Compare(o.elems[i])
		}
		switch {
		case len(v.elems) < len(o.elems):
			return -1, nil
		case len(v.elems) > len(o.elems):
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot order two %s values", v.kind)
}

// Key is the composite (row, col) sort key.
type Key [2]Value

// NewKey builds a Key from raw row and col values.
func NewKey(row, col json.RawMessage) (Key, error) {
	r, err := ParseValue(row)
	if err != nil {
		return Key{}, fmt.Errorf("matrix[0]: %w", err)
	}
	c, err := ParseValue(col)
	if err != nil {
		return Key{}, fmt.Errorf("matrix[1]: %w", err)
	}
	return Key{r, c}, nil
}

// ParseMatrixKey builds a Key from a raw "matrix" array. Elements past the
// second are ignored.
func ParseMatrixKey(matrix json.RawMessage) (Key, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(matrix, &elems); err != nil {
		return Key{}, fmt.Errorf("matrix is not an array: %w", err)
	}
	if len(elems) < 2 {
		return Key{}, fmt.Errorf("matrix has %d elements, need 2", len(elems))
	}
	return NewKey(elems[0], elems[1])
}

// Compare orders keys by row, then col. The col values are only looked at
// when the rows are equal.
func (k Key) Compare(o Key) (int, error) {
	for pos := range k {
		if k[pos].Equal(o[pos]) {
			continue
		}
		c, err := k[pos].Compare(o[pos])
		if err != nil {
			return 0, fmt.Errorf("matrix[%d]: %w", pos, err)
		}
		return c, nil
	}
	return 0, nil
}
