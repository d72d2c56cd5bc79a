package cli

import (
	"fmt"
	"os"

	"domquery/internal/domain/entity"

	"github.com/spf13/cobra"
)

func newScreenshotCmd(a *app) *cobra.Command {
	var backend, out string

	cmd := &cobra.Command{
		Use:   "screenshot <url>",
		Short: "Save a JPEG thumbnail of a page",
		Long: `Open a page in a live backend and save a thumbnail no larger than
1024x1024.

Examples:
  domquery screenshot https://example.com
  domquery screenshot https://example.com -b chromedp --out page.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shot, err := a.container.Inspector.Screenshot(cmd.Context(), backend, args[0])
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, shot.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %dx%d %s to %s\n", shot.Width, shot.Height, shot.Format, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&backend, "backend", "b", entity.BackendSelenium, "Live analyzer backend")
	cmd.Flags().StringVarP(&out, "out", "o", "screenshot.jpg", "Output file")
	return cmd
}
