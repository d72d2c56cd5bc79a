package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBackendsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "backends",
		Aliases: []string{"ls"},
		Short:   "List registered analyzer backends",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.container.Analyzers.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
