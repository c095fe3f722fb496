package io

import (
	"slices"

	"github.com/matzehuels/kbmatrix/pkg/errors"
)

// SortLines stably sorts lines by matrix row, then column, in place.
//
// Keys are compared lazily: a file mixing numbers and strings, or holding
// null coordinates, sorts fine as long as the sort never has to order two
// such values against each other. When it does, SortLines returns an
// ErrCodeSortParse error naming both lines and leaves lines untouched.
func SortLines(lines []Line) error {
	sorted := slices.Clone(lines)

	var failure error
	slices.SortStableFunc(sorted, func(a, b Line) int {
		if failure != nil {
			return 0
		}
		c, err := a.Key.Compare(b.Key)
		if err != nil {
			first, second := a.Number, b.Number
			if first > second {
				first, second = second, first
			}
			failure = errors.Wrap(errors.ErrCodeSortParse, err, "line %d and line %d", first, second)
			return 0
		}
		return c
	})
	if failure != nil {
		return failure
	}

	copy(lines, sorted)
	return nil
}
