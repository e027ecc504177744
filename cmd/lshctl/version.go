package main

import (
	"fmt"

	"github.com/lshkit/lshkit/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.Short())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.Info())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show only the version number")
	return cmd
}
