package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dgellow/perfectemail/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and check config files",
	}

	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a starter config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.GenerateDefault(args[0]); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default config at: %s\n", args[0])
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a config file without resolving environment variables",
		Long: `Check a config file's structure without resolving {"$env": ...} references.
Uses --config when no path is given. Warnings also fail the check.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("a config path is required (argument or --config)")
			}
			return validateConfigFile(cmd.OutOrStdout(), path)
		},
	}

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}

func validateConfigFile(w io.Writer, path string) error {
	result, err := config.ValidateFile(path)
	if err != nil {
		return fmt.Errorf("error during validation: %w", err)
	}

	fmt.Fprintf(w, "Validating: %s\n", path)

	printIssues := func(title string, issues []config.ValidationError) {
		if len(issues) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s (%d):\n", title, len(issues))
		for _, issue := range issues {
			if issue.Path != "" {
				fmt.Fprintf(w, "  - %s: %s\n", issue.Path, issue.Message)
			} else {
				fmt.Fprintf(w, "  - %s\n", issue.Message)
			}
		}
	}
	printIssues("Errors", result.Errors)
	printIssues("Warnings", result.Warnings)

	fmt.Fprintln(w)
	switch {
	case len(result.Errors) == 0 && len(result.Warnings) == 0:
		fmt.Fprintln(w, "Result: PASS")
		return nil
	case len(result.Errors) == 0:
		fmt.Fprintln(w, "Result: FAIL (warnings present)")
	default:
		fmt.Fprintln(w, "Result: FAIL")
	}
	return fmt.Errorf("validation failed: %d error(s), %d warning(s)", len(result.Errors), len(result.Warnings))
}
