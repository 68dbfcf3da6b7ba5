package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Siddarth2230/upid/internal/models"
	"github.com/Siddarth2230/upid/pkg/upid"
)

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <id>...",
		Short: "Decode UPIDs into their fields",
		Long:  "Decode each UPID, in display or canonical form, and print its fields as JSON.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			var errs []error
			for _, arg := range args {
				id, err := upid.Parse(arg)
				if err != nil {
					errs = append(errs, err)
					cmd.PrintErrf("%s: %v\n", arg, err)
					continue
				}
				if err := enc.Encode(models.NewDecoded(id)); err != nil {
					return err
				}
			}
			return errors.Join(errs...)
		},
	}
}
