package cli

import (
	"fmt"
	"io"
	"os"

	"domquery/internal/di"
	"domquery/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

type app struct {
	envDir    string
	logLevel  string
	logDir    string
	headless  bool
	container *di.Container

	// newContainer is swapped in tests.
	newContainer func(cfg di.Config) (*di.Container, error)
}

// NewRootCmd builds the domquery command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{envDir: ".", newContainer: di.NewContainer})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "domquery",
		Short: "domquery - query HTML documents with CSS selectors",
		Long: `domquery loads a document into an analyzer backend and runs CSS selectors
against it.

Quick start:
  domquery backends                                   # List analyzer backends
  domquery query p.x --source "<p class='x'>hi</p>"   # Query inline markup
  domquery query a --file page.html --attr href       # Query a file
  domquery query h1 -b selenium --source https://example.com
  domquery screenshot https://example.com --out shot.jpg`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.container != nil {
				a.container.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logDir, "log-dir", "", "Write a JSON log file per run into this directory")
	root.PersistentFlags().BoolVar(&a.headless, "headless", true, "Run live browsers without a window")

	root.AddCommand(newQueryCmd(a))
	root.AddCommand(newBackendsCmd(a))
	root.AddCommand(newCleanCmd())
	root.AddCommand(newScreenshotCmd(a))

	return root
}

// setup loads .env files, applies flag overrides and builds the container.
func (a *app) setup(cmd *cobra.Command) error {
	envService, err := env.NewEnvService(a.envDir)
	if err != nil {
		return err
	}

	cfg := di.ConfigFromEnv(envService)
	cfg.Logger.Name = cmd.Name()
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}
	if a.logDir != "" {
		cfg.Logger.Dir = a.logDir
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = a.headless
	}
	if f := cmd.Flags().Lookup("clean"); f != nil && f.Changed {
		cfg.Clean = f.Value.String() == "true"
	}

	c, err := a.newContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	a.container = c
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// readSource returns the inline source or the contents of path ("-" is stdin).
func readSource(cmd *cobra.Command, inline, path string) (string, error) {
	switch {
	case inline != "" && path != "":
		return "", fmt.Errorf("use either --source or --file, not both")
	case path == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	case inline != "":
		return inline, nil
	default:
		return "", fmt.Errorf("a document is required: pass --source or --file")
	}
}
