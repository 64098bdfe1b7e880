package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/techtrack/internal/app"
	"github.com/MrSnakeDoc/techtrack/internal/store"
)

func newExportCmd(e *env) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("format must be json or csv, got %q", format)
			}

			return e.withCollection(cmd.Context(), func(c *app.Collection) error {
				write := func(w io.Writer) error {
					if format == "csv" {
						return store.WriteCSV(w, c.Store.All())
					}
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(c.Store.Export(cmd.Context()))
				}

				if out == "" || out == "-" {
					return write(cmd.OutOrStdout())
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				if err := write(f); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func newImportCmd(e *env) *cobra.Command {
	var replace, restore bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import technologies from a JSON export",
		Long: `Import an export document or a bare JSON array of technologies.
Records are appended unless --replace is given. Use - to read stdin.

With --restore the file must be an export document; the collection is
replaced by its records exactly as exported, ids and dates included.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if replace && restore {
				return fmt.Errorf("--replace and --restore cannot be combined")
			}
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if restore {
				return e.restore(cmd, data)
			}
			records, dropped, err := store.ParseImport(data)
			if err != nil {
				return err
			}

			return e.withCollection(cmd.Context(), func(c *app.Collection) error {
				var imported int
				if replace {
					imported, err = c.Store.ImportReplace(cmd.Context(), records)
				} else {
					imported, err = c.Store.ImportMerge(cmd.Context(), records)
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d technologies (%d skipped), collection now has %d\n",
					imported, dropped, c.Store.Len())
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace the whole collection instead of appending")
	cmd.Flags().BoolVar(&restore, "restore", false, "restore an export document as is")
	return cmd
}

func (e *env) restore(cmd *cobra.Command, data []byte) error {
	doc, err := store.ParseExport(data)
	if err != nil {
		return err
	}
	return e.withCollection(cmd.Context(), func(c *app.Collection) error {
		if err := c.Store.ReplaceAll(cmd.Context(), doc.Technologies); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Restored %d technologies from the %s export\n",
			doc.TotalTechnologies, doc.ExportedAt.Format("2006-01-02"))
		return err
	})
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
