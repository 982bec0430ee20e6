package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dgellow/perfectemail/internal/config"
)

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "perfectemail %s %s/%s (config schema %s)\n",
				opts.version, runtime.GOOS, runtime.GOARCH, config.Version)
		},
	}
}
