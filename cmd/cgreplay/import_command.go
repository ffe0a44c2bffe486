package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"cgreplay/internal/logging"
	"cgreplay/internal/reference"
	"cgreplay/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import <export.csv|export.xlsx|fixtures.json>",
		Short: "Import logged sessions into the database",
		Long: "Import logged sessions into the database.\n\n" +
			"CSV and XLSX files are read as the study's response export (User ID, Scene,\n" +
			"Video A Filename, Video B Filename). JSON files are read as fixtures. Importing a\n" +
			"user again replaces that user's entries.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var (
				records []reference.Record
				err     error
			)
			if strings.EqualFold(filepath.Ext(path), ".json") {
				records, err = reference.LoadFixtures(path)
			} else {
				records, err = reference.ParseResponses(path)
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			return ctx.withStore(func(s *store.Store) error {
				result, err := s.ImportRecords(cmd.Context(), path, records)
				if err != nil {
					return fmt.Errorf("import: %w", err)
				}
				ctx.log().Info("responses imported",
					slog.String(logging.FieldComponent, "import"),
					slog.String("batch_id", result.BatchID),
					slog.Int("users", result.Users),
					slog.Int("entries", result.Entries),
				)
				if asJSON {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users (%d entries) from %s\nBatch %s\n",
					result.Users, result.Entries, path, result.BatchID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
