package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kbmatrix/pkg/pipeline"
)

// sortCommand creates the sort command.
func (c *CLI) sortCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sort [input]",
		Short: "Sort a JSON Lines file by matrix row and column",
		Long: `Sort a JSON Lines file by matrix row and column.

Every line must be a JSON object with a two-element "matrix" array. Lines are
ordered by row, then column; lines with equal positions keep their order.
Numbers compare numerically and strings by code point. One bad line aborts
the sort and leaves the output untouched.

Input and output may be the same file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.config.Sort.options(args, output, cmd.Flags().Changed("output"))
			_, err := c.runSort(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", fmt.Sprintf("output file, - for stdout (default %q)", pipeline.DefaultSortOutput))

	return cmd
}

// runSort runs the sort stage and prints its summary.
func (c *CLI) runSort(ctx context.Context, opts pipeline.Options) (*pipeline.SortResult, error) {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	spin := newSpinner(c.ErrOut, "Sorting "+opts.Input+"...")
	spin.Start(ctx)

	prog := newProgress(logger)
	result, err := c.newRunner(logger).Sort(ctx, opts)
	spin.Stop()
	if err != nil {
		return nil, fmt.Errorf("sort %s: %w", opts.Input, err)
	}
	prog.done("sort done", "run", result.RunID)

	p := c.printerFor(opts.Output)
	p.success("Sorted %d records to %s", result.Records, displayPath(opts.Output))
	if !opts.WritesStdout() {
		p.file(opts.Output)
	}
	return result, nil
}
