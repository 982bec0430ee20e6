// Package cli implements the perfectemail command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgellow/perfectemail/internal/batch"
	"github.com/dgellow/perfectemail/internal/config"
	"github.com/dgellow/perfectemail/internal/log"
)

// errFailed marks a run that printed its own diagnostics and only needs a
// non-zero exit status.
var errFailed = errors.New("one or more inputs failed")

// IsSilent reports whether err only signals failure and has already been
// explained to the user.
func IsSilent(err error) bool {
	return errors.Is(err, errFailed)
}

// options holds flags shared by every command.
type options struct {
	version    string
	configPath string
	logLevel   string
	logJSON    bool

	cfg config.Config
}

// Execute runs the root command against the process arguments.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

// NewRootCmd builds the full command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{version: version, cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:   "perfectemail",
		Short: "Validate, normalize and fix email addresses",
		Long: `perfectemail validates addresses against strict syntax rules, normalizes
them for deduplication and corrects common misspellings of the big webmail
providers. It runs one-shot on the command line or as an MCP tool server.

Commands that take addresses read them from the arguments, or one per line
from stdin when no arguments are given.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON")

	rootCmd.AddCommand(
		newValidateCmd(opts),
		newNormalizeCmd(opts),
		newFixCmd(opts),
		newDisposableCmd(opts),
		newBatchCmd(opts),
		newExtractCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(opts),
	)

	return rootCmd
}

// setup applies logging flags and loads the config file, if any. Flags win
// over the config file.
func (o *options) setup(cmd *cobra.Command) error {
	log.SetOutput(cmd.ErrOrStderr())
	if o.logJSON {
		log.SetJSON(true)
	}

	if o.configPath != "" && !isConfigCommand(cmd) {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		o.cfg = cfg
	}

	level := o.logLevel
	if level == "" {
		level = o.cfg.LogLevel
	}
	if level != "" {
		if err := log.SetLogLevel(level); err != nil {
			return err
		}
	}
	return nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

// readInputs returns args, or the lines of stdin when args is empty.
func readInputs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	return batch.ReadLines(cmd.InOrStdin())
}

// openInput opens path for reading; "" and "-" mean stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}
