package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/voltlab/sldraw/pkg/buildinfo"
	"github.com/voltlab/sldraw/pkg/layout"
)

// Execute runs the sldraw CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (layout,
// render, view, serve, cache), configures logging based on the --verbose
// flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "sldraw",
		Short:        "sldraw lays out and renders electrical single-line diagrams",
		Long:         `sldraw turns a list of components and connections into a staged single-line diagram: generation on the left, the grid on the right, positions computed automatically and editable by hand.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newLayoutCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}

// engineFromConfig builds a layout engine, loading the TOML config file
// when one is given.
func engineFromConfig(path string) (*layout.Engine, error) {
	if path == "" {
		return layout.New(), nil
	}
	cfg, err := layout.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return layout.New(layout.WithOptions(cfg.Layout)), nil
}
