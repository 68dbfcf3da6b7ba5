package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Siddarth2230/upid/pkg/log"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "upid",
		Short:         "Generate, parse and serve UPIDs",
		Long:          "upid creates prefixed, time-sortable 128-bit identifiers and runs an HTTP service that issues and tracks them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenCommand(), newParseCommand(), newServeCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		l := log.L()
		l.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
