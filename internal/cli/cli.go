package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kbmatrix/pkg/buildinfo"
	"github.com/matzehuels/kbmatrix/pkg/errors"
	"github.com/matzehuels/kbmatrix/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "kbmatrix"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // summaries and records written to "-"
	ErrOut io.Writer // summaries when records use Out; spinner

	verbose    bool
	configPath string
	config     Config
}

// New creates a CLI that logs to w at level and prints to the process's
// standard streams.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "kbmatrix repairs keyboard layout dumps into sorted JSON Lines",
		Long: `kbmatrix extracts the key objects from a relaxed, concatenated JSON
layout dump (comments, trailing commas, several objects per file), turns each
into a normalized {"matrix":[row,col],...} record and sorts the records by
matrix position.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML config file with [convert] and [sort] paths")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.sortCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies the log level, attaches the logger to the command context
// and loads the config file.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	c.Logger.Debug("kbmatrix", "build", buildinfo.String())

	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(logger *log.Logger) *pipeline.Runner {
	runner := pipeline.NewRunner(logger)
	runner.Stdout = c.Out
	return runner
}

// printerFor returns the summary printer for a stage writing to output.
// When records go to stdout the summary is sent to stderr instead.
func (c *CLI) printerFor(output string) printer {
	if output == pipeline.StdoutPath {
		return printer{w: c.ErrOut}
	}
	return printer{w: c.Out}
}

// PrintError writes err to w as a styled one-line message with its code.
func PrintError(w io.Writer, err error) {
	p := printer{w: w}
	if code := errors.GetCode(err); code != "" {
		p.errorf("%s [%s]", errors.UserMessage(err), code)
		return
	}
	p.errorf("%v", err)
}
