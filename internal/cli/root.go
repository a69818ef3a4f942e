// Package cli implements the canvasd command-line interface.
//
// The CLI is built with cobra and supports verbose logging via the
// charmbracelet/log library. The main command is serve, which starts the
// canvas HTTP server. Loggers are passed through context.Context so every
// command has structured logging without global state.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/canvasd/canvasd/pkg/buildinfo"
)

// Execute runs the canvasd CLI and returns an error if any command fails.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "canvasd",
		Short:        "canvasd serves incremental drawing canvases over HTTP",
		Long:         `canvasd holds server-side canvas sessions that clients build up by appending shape, text, and image elements, then fetch as PNG previews or single-page PDF exports.`,
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

	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
