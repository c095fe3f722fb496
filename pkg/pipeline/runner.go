package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kbmatrix/pkg/errors"
	pkgio "github.com/matzehuels/kbmatrix/pkg/io"
	"github.com/matzehuels/kbmatrix/pkg/observability"
	"github.com/matzehuels/kbmatrix/pkg/record"
	"github.com/matzehuels/kbmatrix/pkg/sanitize"
	"github.com/matzehuels/kbmatrix/pkg/scan"
)

// Runner executes pipeline stages.
//
// The Runner holds no per-run state, so one Runner can serve any number of
// sequential runs.
type Runner struct {
	Logger *log.Logger
	Stdout io.Writer // destination for the "-" output path
}

// NewRunner creates a runner that logs to logger.
// If logger is nil, log.Default() is used. Stdout defaults to os.Stdout.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, Stdout: os.Stdout}
}

// Convert runs the clean-and-convert stage.
//
// It fails with ErrCodeMissingInputFile when opts.Input does not exist and
// with ErrCodeNoObjectsFound when the input holds no complete top-level
// object; in both cases the output is not touched. Per-object failures are
// recorded in the returned Report and logged as warnings. The Report is
// returned even when err is non-nil and reflects the work done so far.
func (r *Runner) Convert(ctx context.Context, opts Options) (*Report, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForConvert(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	report := &Report{RunID: uuid.NewString(), Input: opts.Input, Output: opts.Output}
	hooks := observability.Pipeline()
	hooks.OnConvertStart(ctx, opts.Input)

	err := r.convert(ctx, opts, report)
	report.Duration = time.Since(start)
	hooks.OnConvertComplete(ctx, opts.Input, report.Written(), report.Skipped(), report.Duration, err)
	if err != nil {
		return report, err
	}

	opts.Logger.Debug("convert finished",
		"run", report.RunID,
		"written", report.Written(),
		"skipped", report.Skipped(),
		"duration", report.Duration)
	return report, nil
}

func (r *Runner) convert(ctx context.Context, opts Options, report *Report) error {
	logger := opts.Logger

	raw, err := os.ReadFile(opts.Input)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeMissingInputFile, err, "input file not found: %s", opts.Input)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read %s", opts.Input)
	}

	res := scan.Scan(strings.TrimSpace(string(raw)))
	report.Found = len(res.Spans)
	report.Truncated = res.Truncated()
	if res.Truncated() {
		logger.Warn("input ends inside an unclosed object; it was dropped", "depth", res.Depth, "in_string", res.InString)
	}
	if res.Unmatched > 0 {
		logger.Debug("ignored unmatched closing braces", "count", res.Unmatched)
	}
	if len(res.Spans) == 0 {
		return errors.New(errors.ErrCodeNoObjectsFound, "no JSON objects found in %s", opts.Input)
	}

	logger.Info("Found top-level objects", "count", len(res.Spans), "output", opts.Output)

	out, err := r.openOutput(opts.Output)
	if err != nil {
		return err
	}
	w := pkgio.NewWriter(out)

	err = r.convertSpans(ctx, res.Spans, w, report, logger)
	logger.Debug("records written", "count", w.Count())
	if ferr := w.Flush(); err == nil && ferr != nil {
		err = errors.Wrap(errors.ErrCodeIO, ferr, "write %s", opts.Output)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = errors.Wrap(errors.ErrCodeIO, cerr, "close %s", opts.Output)
	}
	return err
}

// convertSpans processes spans in extraction order. Only I/O failures,
// cancellation and internal errors stop the loop.
func (r *Runner) convertSpans(ctx context.Context, spans []scan.Span, w *pkgio.Writer, report *Report, logger *log.Logger) error {
	hooks := observability.Pipeline()
	for i, span := range spans {
		if err := ctx.Err(); err != nil {
			return err
		}

		cleaned, err := sanitize.Clean(span.Text)
		if err != nil {
			return fmt.Errorf("object #%d: %w", i, err)
		}

		rec, err := record.Normalize(cleaned)
		if err != nil {
			report.Outcomes = append(report.Outcomes, Outcome{Index: i, Span: span, Err: err})
			logSkip(logger, i, cleaned, err)
			hooks.OnSpanSkipped(ctx, i, string(errors.GetCode(err)))
			continue
		}

		if err := w.Write(rec); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write record #%d", i)
		}
		report.Outcomes = append(report.Outcomes, Outcome{Index: i, Span: span, Record: &rec})
		logger.Debug("converted object",
			"object", i,
			"bytes", span.Len(),
			"row", string(rec.Row()),
			"col", string(rec.Col()))
	}
	return nil
}

func logSkip(logger *log.Logger, index int, cleaned string, err error) {
	if errors.Is(err, errors.ErrCodeObjectParse) {
		logger.Warn("JSON parse failed; object skipped",
			"object", index,
			"err", errors.UserMessage(err),
			"snippet", record.Snippet(cleaned))
		return
	}
	logger.Warn("Object skipped", "object", index, "err", errors.UserMessage(err))
}

// Sort runs the sort stage: read opts.Input fully, order it by matrix
// position and write opts.Output. Input and output may name the same file.
func (r *Runner) Sort(ctx context.Context, opts Options) (*SortResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSort(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	result := &SortResult{RunID: uuid.NewString(), Input: opts.Input, Output: opts.Output}
	hooks := observability.Pipeline()
	hooks.OnSortStart(ctx, opts.Input)

	err := r.sort(ctx, opts, result)
	result.Duration = time.Since(start)
	hooks.OnSortComplete(ctx, opts.Input, result.Records, result.Duration, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("sort finished",
		"run", result.RunID,
		"records", result.Records,
		"duration", result.Duration)
	return result, nil
}

func (r *Runner) sort(ctx context.Context, opts Options, result *SortResult) error {
	lines, err := pkgio.ImportJSONL(opts.Input)
	if err != nil {
		return err
	}
	opts.Logger.Debug("read records", "input", opts.Input, "count", len(lines))

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pkgio.SortLines(lines); err != nil {
		return err
	}
	result.Records = len(lines)

	if opts.WritesStdout() {
		return pkgio.WriteLines(r.stdout(), lines)
	}
	if err := pkgio.ExportJSONL(opts.Output, lines); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write sorted output")
	}
	return nil
}

// applyLogger sets the runner's logger on opts if none was given.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or the runner's stdout for "-".
func (r *Runner) openOutput(path string) (io.WriteCloser, error) {
	if path == StdoutPath {
		return nopCloser{r.stdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	return f, nil
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}
