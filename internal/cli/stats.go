package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/techtrack/internal/app"
	"github.com/MrSnakeDoc/techtrack/internal/store"
)

func newStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show progress statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.withCollection(cmd.Context(), func(c *app.Collection) error {
				return printStats(cmd.OutOrStdout(), c.Store.Stats())
			})
		},
	}
}

func printStats(out io.Writer, s store.Stats) error {
	fmt.Fprintf(out, "Total:        %d\n", s.Total)
	fmt.Fprintf(out, "Not started:  %d\n", s.NotStarted)
	fmt.Fprintf(out, "In progress:  %d\n", s.InProgress)
	fmt.Fprintf(out, "Completed:    %d\n", s.Completed)
	fmt.Fprintf(out, "Progress:     %d%%\n", s.Progress)
	fmt.Fprintf(out, "Deadlines:    %d set, %d overdue\n", s.WithDeadline, s.Overdue)

	printBreakdown(out, "By category", s.ByCategory)
	printBreakdown(out, "By difficulty", s.ByDifficulty)
	return nil
}

func printBreakdown(out io.Writer, title string, m map[string]store.Breakdown) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(out, "\n%s:\n", title)
	for _, k := range keys {
		b := m[k]
		fmt.Fprintf(out, "  %-14s %d/%d (%d%%)\n", k, b.Completed, b.Total, b.Progress)
	}
}
