package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"domquery/internal/application/port/input"
	"domquery/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type queryFlags struct {
	backend string
	source  string
	file    string
	attrs   []string
	limit   int
	json    bool
	clean   bool
}

func newQueryCmd(a *app) *cobra.Command {
	var f queryFlags

	cmd := &cobra.Command{
		Use:   "query <selector>...",
		Short: "Run CSS selectors against a document",
		Long: `Load a document into an analyzer backend and print the elements matching
each selector, in document order.

The soup backend takes markup, live backends take a page address.

Examples:
  domquery query "p.x" --source "<div><p class='x'>hi</p></div>"
  domquery query a --file page.html --attr href --limit 10
  curl -s https://example.com | domquery query h1 --file -
  domquery query "#app li" -b selenium --source https://example.com --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, f.source, f.file)
			if err != nil {
				return err
			}

			res, err := a.container.Inspector.Execute(cmd.Context(), input.InspectRequest{
				Backend:    f.backend,
				Source:     source,
				Selectors:  args,
				Attributes: f.attrs,
				Limit:      f.limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Matches)
			}

			if len(res.Matches) == 0 {
				fmt.Fprintln(out, "No matches")
				return nil
			}
			label := color.New(color.FgCyan, color.Bold).SprintfFunc()
			dim := color.New(color.Faint).SprintFunc()
			for _, m := range res.Matches {
				line := label("%s[%d]:", m.Selector, m.Index) + " " + oneLine(m.Text)
				if attrs := formatAttrs(m.Attributes); attrs != "" {
					line += dim(attrs)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.backend, "backend", "b", entity.BackendSoup, "Analyzer backend (see 'domquery backends')")
	cmd.Flags().StringVar(&f.source, "source", "", "Inline markup or page address")
	cmd.Flags().StringVar(&f.file, "file", "", "Read the document from a file, - for stdin")
	cmd.Flags().StringSliceVar(&f.attrs, "attr", nil, "Attributes to print for each match")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Maximum matches per selector (0 = all)")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print matches as JSON")
	cmd.Flags().BoolVar(&f.clean, "clean", false, "Strip scripts, styles and noise attributes before parsing (soup)")

	return cmd
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%q", k, attrs[k])
	}
	return sb.String()
}
