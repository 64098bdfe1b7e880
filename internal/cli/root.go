// Package cli holds the techtrack command tree. Every command builds its
// store from the same environment configuration as the server.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/techtrack/internal/app"
	"github.com/MrSnakeDoc/techtrack/internal/config"
	"github.com/MrSnakeDoc/techtrack/internal/logger"
	"github.com/MrSnakeDoc/techtrack/internal/utils"
	"github.com/MrSnakeDoc/techtrack/internal/version"
)

// env is what PersistentPreRunE prepares for the subcommands.
type env struct {
	load    func() *config.Config
	verbose bool

	cfg *config.Config
	log logger.Logger
}

// NewRootCmd builds the command tree. Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	return newRootCmd(config.Load)
}

func newRootCmd(load func() *config.Config) *cobra.Command {
	e := &env{load: load}

	root := &cobra.Command{
		Use:   "techtrack",
		Short: "techtrack - technology learning tracker",
		Long: `techtrack keeps a collection of technologies to learn, with their
status, notes, resources and deadlines.

Run without a command to start the HTTP API.`,
		Version:           fmt.Sprintf("%s (commit=%s, built=%s, go=%s)", version.Version, version.Commit, version.BuildDate, version.GoVersion),
		PersistentPreRunE: e.setup,
		RunE:              e.runServe,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "log to stderr in offline commands")

	root.AddCommand(
		newServeCmd(e),
		newListCmd(e),
		newStatsCmd(e),
		newExportCmd(e),
		newImportCmd(e),
		newResetCmd(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command, _ []string) error {
	e.cfg = e.load()

	serving := cmd.Name() == "serve" || !cmd.HasParent()
	switch {
	case serving:
		e.log = logger.New(e.cfg.LogLevel, e.cfg.PrettyLog)
	case e.verbose:
		e.log = logger.New(e.cfg.LogLevel, true)
	default:
		e.log = logger.NewNop()
	}
	return nil
}

// withCollection opens the configured collection for one offline command.
func (e *env) withCollection(ctx context.Context, fn func(c *app.Collection) error) error {
	c, err := app.OpenCollection(ctx, e.cfg, e.log)
	if err != nil {
		return err
	}
	defer utils.MustClose(c, e.log, "storage")
	return fn(c)
}
