package pipeline

import (
	"time"

	"github.com/matzehuels/kbmatrix/pkg/errors"
	"github.com/matzehuels/kbmatrix/pkg/record"
	"github.com/matzehuels/kbmatrix/pkg/scan"
)

// Outcome is the result of processing one extracted object.
type Outcome struct {
	Index  int            // position in extraction order, from 0
	Span   scan.Span      // source span
	Record *record.Record // nil when skipped
	Err    error          // reason for skipping
}

// OK reports whether the object produced a record.
func (o Outcome) OK() bool { return o.Err == nil }

// Report summarizes a convert run.
type Report struct {
	RunID  string
	Input  string
	Output string

	// Found is the number of top-level objects extracted.
	Found int

	// Truncated is set when the input ended inside an unclosed object,
	// which was dropped.
	Truncated bool

	Outcomes []Outcome
	Duration time.Duration
}

// Written returns the number of records written.
func (r *Report) Written() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Skipped returns the number of objects skipped.
func (r *Report) Skipped() int {
	return len(r.Outcomes) - r.Written()
}

// SkipCounts returns the number of skipped objects per error code.
func (r *Report) SkipCounts() map[errors.Code]int {
	counts := make(map[errors.Code]int)
	for _, o := range r.Outcomes {
		if !o.OK() {
			counts[errors.GetCode(o.Err)]++
		}
	}
	return counts
}

// Failures returns the outcomes of skipped objects in extraction order.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// SortResult summarizes a sort run.
type SortResult struct {
	RunID    string
	Input    string
	Output   string
	Records  int
	Duration time.Duration
}
