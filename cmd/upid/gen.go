package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Siddarth2230/upid/pkg/upid"
)

type genOptions struct {
	at    string
	ms    int64
	count int
	uuid  bool
}

func newGenCommand() *cobra.Command {
	opts := &genOptions{}
	cmd := &cobra.Command{
		Use:   "gen [prefix]",
		Short: "Generate UPIDs",
		Long:  "Generate one or more UPIDs with an optional prefix of up to four characters from " + upid.Alphabet() + ".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return runGen(cmd, upid.NewGenerator(), prefix, opts)
		},
	}
	cmd.Flags().StringVar(&opts.at, "at", "", "timestamp as RFC 3339 instead of now")
	cmd.Flags().Int64Var(&opts.ms, "ms", 0, "timestamp as unix milliseconds instead of now")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "number of identifiers")
	cmd.Flags().BoolVar(&opts.uuid, "uuid", false, "also print the UUID form")
	cmd.MarkFlagsMutuallyExclusive("at", "ms")
	return cmd
}

func runGen(cmd *cobra.Command, gen *upid.Generator, prefix string, opts *genOptions) error {
	if opts.count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}
	if err := upid.ValidatePrefix(prefix); err != nil {
		return err
	}

	var at *time.Time
	switch {
	case opts.at != "":
		t, err := time.Parse(time.RFC3339Nano, opts.at)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		at = &t
	case cmd.Flags().Changed("ms"):
		t := time.UnixMilli(opts.ms)
		at = &t
	}

	out := cmd.OutOrStdout()
	for i := 0; i < opts.count; i++ {
		var (
			id  upid.UPID
			err error
		)
		if at != nil {
			id, err = gen.NewAt(prefix, *at)
		} else {
			id, err = gen.New(prefix)
		}
		if err != nil {
			return err
		}
		if opts.uuid {
			fmt.Fprintf(out, "%s\t%s\n", id, id.UUID())
		} else {
			fmt.Fprintln(out, id)
		}
	}
	return nil
}
