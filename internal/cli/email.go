package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dgellow/perfectemail/emailutil"
	"github.com/dgellow/perfectemail/internal/disposable"
)

func newValidateCmd(opts *options) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate [email...]",
		Short: "Check addresses against the strict syntax rules",
		Long: `Check addresses against the strict syntax rules. Arguments are checked
exactly as given: surrounding whitespace makes an address invalid. Lines read
from stdin are trimmed first, and blank or '#' lines are skipped.
Exits non-zero when any address is invalid.

Examples:
  perfectemail validate someone@example.com
  perfectemail validate -q "$ADDR" && echo ok
  cat list.txt | perfectemail validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(cmd, args)
			if err != nil {
				return err
			}
			failed := false
			for _, in := range inputs {
				valid := emailutil.IsValid(in)
				if !valid {
					failed = true
				}
				if quiet {
					continue
				}
				status := "valid"
				if !valid {
					status = "invalid"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", in, status)
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing; report through the exit status only")
	return cmd
}

func newNormalizeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [email...]",
		Short: "Trim, lowercase and strip +tags for deduplication",
		Long: `Normalize addresses for deduplication: trim, lowercase, validate, and drop
everything from the first '+' in the local part. Invalid addresses are
reported on stderr and make the command exit non-zero.

Examples:
  perfectemail normalize " John.Doe+news@Example.com "   # john.doe@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachInput(cmd, args, func(in string) (string, error) {
				return emailutil.Normalize(in)
			})
		},
	}
}

func newFixCmd(opts *options) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "fix [email...]",
		Short: "Correct misspelled webmail domains",
		Long: `Trim, lowercase and validate addresses, then correct common misspellings of
gmail.com, hotmail.com, icloud.com, outlook.com and yahoo.com. The local part
is never changed and +tags are kept. Unknown domains pass through unchanged.

Examples:
  perfectemail fix someone@gmial.com              # someone@gmail.com
  perfectemail fix --explain someone@yahooo.com   # someone@yahoo.com  fuzzy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eachInput(cmd, args, func(in string) (string, error) {
				s, err := emailutil.Suggest(in)
				if err != nil {
					return "", err
				}
				if explain {
					return fmt.Sprintf("%s\t%s", s.Email, s.Kind), nil
				}
				return s.Email, nil
			})
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "also print how the domain matched (none, canonical, exact, fuzzy)")
	return cmd
}

func newDisposableCmd(opts *options) *cobra.Command {
	var extra []string

	cmd := &cobra.Command{
		Use:   "disposable [email-or-domain...]",
		Short: "Flag addresses hosted by throwaway mail services",
		Long: `Report whether each address, @domain or bare domain belongs to a known
disposable mail provider. Extra domains come from the config file
(disposable.extraDomains) and --extra. Exits non-zero when any input is
disposable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(cmd, args)
			if err != nil {
				return err
			}
			checker := disposable.New(slices.Concat(opts.cfg.Disposable.ExtraDomains, extra)...)
			found := false
			for _, in := range inputs {
				status := "ok"
				if checker.IsDisposableEmail(in) {
					status = "disposable"
					found = true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", in, status)
			}
			if found {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&extra, "extra", nil, "additional disposable domains")
	return cmd
}

// eachInput applies fn to every input, printing results on stdout and
// failures on stderr.
func eachInput(cmd *cobra.Command, args []string, fn func(string) (string, error)) error {
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}
	failed := false
	for _, in := range inputs {
		out, err := fn(in)
		if err != nil {
			failed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "%q: %v\n", in, err)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}
	if failed {
		return errFailed
	}
	return nil
}
