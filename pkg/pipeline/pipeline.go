// Package pipeline runs the two kbmatrix stages: convert and sort.
//
// # Stages
//
// Convert reads a relaxed layout dump, extracts every top-level object
// (package scan), cleans it (package sanitize), normalizes it (package
// record) and writes one JSON line per good object (package io). Objects
// that fail to parse or lack row/col are logged, counted in the [Report] and
// skipped; they never abort the batch.
//
// Sort reads a JSON Lines file produced by convert, orders it by matrix row
// and column, and writes it back out. Any bad line aborts the sort.
//
// The stages share nothing at runtime. Running both means running convert to
// completion, output closed, and then sort on its output.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	report, err := runner.Convert(ctx, pipeline.Options{
//	    Input:  "data.json",
//	    Output: "output.jsonl",
//	})
//	if err != nil {
//	    return err // missing input, no objects, I/O failure
//	}
//	fmt.Println(report.Written(), "written,", report.Skipped(), "skipped")
//
//	result, err := runner.Sort(ctx, pipeline.Options{
//	    Input:  "output.jsonl",
//	    Output: "sorted_output.jsonl",
//	})
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kbmatrix/pkg/errors"
)

// Default paths, matching the file names the layout tooling has always used.
const (
	DefaultConvertInput  = "data.json"
	DefaultConvertOutput = "output.jsonl"
	DefaultSortInput     = "output.jsonl"
	DefaultSortOutput    = "sorted_output.jsonl"
)

// StdoutPath as an output path writes to the runner's standard output.
const StdoutPath = "-"

// Options configures one stage run.
type Options struct {
	Input  string `json:"input"`
	Output string `json:"output"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// ValidateForConvert checks the options of a convert run.
func (o *Options) ValidateForConvert() error {
	return o.validate()
}

// ValidateForSort checks the options of a sort run.
func (o *Options) ValidateForSort() error {
	if o.Input == StdoutPath {
		return errors.New(errors.ErrCodeInvalidInput, "sort input must be a file")
	}
	return o.validate()
}

func (o *Options) validate() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input path is required")
	}
	if o.Output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "output path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// WritesStdout reports whether output goes to standard output.
func (o *Options) WritesStdout() bool {
	return o.Output == StdoutPath
}
