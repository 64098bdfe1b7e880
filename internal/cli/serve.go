package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/techtrack/internal/app"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  e.runServe,
	}
}

func (e *env) runServe(cmd *cobra.Command, _ []string) error {
	a, err := app.New(cmd.Context(), e.cfg, e.log)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()
	return a.Run()
}
