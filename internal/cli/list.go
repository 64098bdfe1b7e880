package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/techtrack/internal/app"
	"github.com/MrSnakeDoc/techtrack/internal/domain"
)

func newListCmd(e *env) *cobra.Command {
	var (
		status     string
		category   string
		difficulty string
		search     string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List technologies",
		Long:  `List the technologies of the collection, optionally filtered. Filters combine with AND.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := domain.Filter{Category: category, Search: search}
			if status != "" {
				st, ok := domain.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				f.Status = st
			}
			if difficulty != "" {
				d := domain.Difficulty(strings.ToLower(difficulty))
				if !d.Valid() {
					return fmt.Errorf("unknown difficulty %q", difficulty)
				}
				f.Difficulty = d
			}

			return e.withCollection(cmd.Context(), func(c *app.Collection) error {
				techs := c.Store.Filter(f)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(techs)
				}
				return printTable(cmd.OutOrStdout(), techs)
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (not-started, in-progress, completed)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "filter by difficulty")
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive text search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printTable(out io.Writer, techs []domain.Technology) error {
	if len(techs) == 0 {
		_, err := fmt.Fprintln(out, "No technologies found")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTitle\tCategory\tDifficulty\tStatus\tDeadline\t\n")
	for _, t := range techs {
		deadline := t.Deadline
		if deadline == "" {
			deadline = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			t.ID, truncate(t.Title, 30), t.Category, t.Difficulty, t.Status, deadline)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\nTotal: %d\n", len(techs))
	return err
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
