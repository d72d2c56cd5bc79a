package cli

import (
	"fmt"

	"domquery/internal/infrastructure/markup"

	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	var source, file string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Print markup with scripts, styles and noise attributes removed",
		Long: `Print the <body> of a document after the markup cleaner has run. This is
the markup the soup backend sees with 'query --clean'.

Examples:
  domquery clean --file page.html
  curl -s https://example.com | domquery clean --file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readSource(cmd, source, file)
			if err != nil {
				return err
			}
			cleaned, err := markup.Clean(raw, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cleaned)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Inline markup")
	cmd.Flags().StringVar(&file, "file", "", "Read markup from a file, - for stdin")
	return cmd
}
