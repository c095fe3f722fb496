package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kbmatrix/pkg/pipeline"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		output string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Repair a layout dump into normalized JSON Lines",
		Long: `Repair a layout dump into normalized JSON Lines.

The input may hold several top-level objects, wrapped or not, with // and
/* */ comments and trailing commas. Every complete object is cleaned and
written as one line:

  {"matrix":[row,col],"x":0,"y":0,"r":0,"rx":0,"ry":0}

Objects that still fail to parse or lack row/col are reported and skipped.
Use "-o -" to write records to stdout. With --watch the conversion reruns
every time the input file changes, until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.config.Convert.options(args, output, cmd.Flags().Changed("output"))
			if watch {
				return c.watch(cmd.Context(), opts.Input, func(ctx context.Context) error {
					_, err := c.runConvert(ctx, opts)
					return err
				})
			}
			if _, err := c.runConvert(cmd.Context(), opts); err != nil {
				return err
			}
			if !opts.WritesStdout() {
				p := c.printerFor(opts.Output)
				p.newline()
				p.nextStep("Sort", appName+" sort "+opts.Output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", fmt.Sprintf("output file, - for stdout (default %q)", pipeline.DefaultConvertOutput))
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rerun whenever the input file changes")

	return cmd
}

// runConvert runs the convert stage and prints its summary.
func (c *CLI) runConvert(ctx context.Context, opts pipeline.Options) (*pipeline.Report, error) {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	prog := newProgress(logger)
	report, err := c.newRunner(logger).Convert(ctx, opts)
	if err != nil {
		return report, fmt.Errorf("convert %s: %w", opts.Input, err)
	}
	prog.done("convert done", "run", report.RunID)

	p := c.printerFor(opts.Output)
	p.success("Wrote %d records to %s", report.Written(), displayPath(opts.Output))
	if !opts.WritesStdout() {
		p.file(opts.Output)
	}
	p.counts(report.Found, report.Written(), report.Skipped())
	if report.Skipped() > 0 {
		p.skips(report.SkipCounts())
	}
	if report.Truncated {
		p.warning("Input ended inside an unclosed object; it was dropped")
	}
	return report, nil
}

// displayPath names output paths in summaries.
func displayPath(path string) string {
	if path == pipeline.StdoutPath {
		return "stdout"
	}
	return path
}
