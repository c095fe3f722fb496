package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kbmatrix/pkg/errors"
	"github.com/matzehuels/kbmatrix/pkg/pipeline"
)

// runCommand creates the run command, which converts and then sorts.
func (c *CLI) runCommand() *cobra.Command {
	var (
		output, sorted string
		watch          bool
	)

	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Convert a layout dump, then sort the result",
		Long: `Convert a layout dump, then sort the result.

This is convert followed by sort on convert's output. Sort starts only after
convert has finished and closed its output. If convert fails, sort does not
run. With --watch both stages rerun every time the input file changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			convertOpts := c.config.Convert.options(args, output, cmd.Flags().Changed("output"))
			sortOpts := pipeline.Options{Input: convertOpts.Output, Output: c.config.Sort.Output}
			if cmd.Flags().Changed("sorted") {
				sortOpts.Output = sorted
			}
			if convertOpts.WritesStdout() {
				return errors.New(errors.ErrCodeInvalidInput, "run cannot sort records written to stdout; give -o a file")
			}
			if watch {
				return c.watch(cmd.Context(), convertOpts.Input, func(ctx context.Context) error {
					return c.runBoth(ctx, convertOpts, sortOpts)
				})
			}
			return c.runBoth(cmd.Context(), convertOpts, sortOpts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", fmt.Sprintf("converted file (default %q)", pipeline.DefaultConvertOutput))
	cmd.Flags().StringVar(&sorted, "sorted", "", fmt.Sprintf("sorted file, - for stdout (default %q)", pipeline.DefaultSortOutput))
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rerun both stages whenever the input file changes")

	return cmd
}

// runBoth runs convert and sort strictly in sequence.
func (c *CLI) runBoth(ctx context.Context, convertOpts, sortOpts pipeline.Options) error {
	if _, err := c.runConvert(ctx, convertOpts); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p := c.printerFor(sortOpts.Output)
	p.newline()
	p.info("Sorting %s", convertOpts.Output)

	_, err := c.runSort(ctx, sortOpts)
	return err
}
