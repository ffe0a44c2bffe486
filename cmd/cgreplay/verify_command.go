package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"cgreplay/internal/catalog"
	"cgreplay/internal/logging"
	"cgreplay/internal/reference"
	"cgreplay/internal/store"
	"cgreplay/internal/verify"
)

type verifyOutput struct {
	RunID         string          `json:"run_id,omitempty"`
	CatalogHash   uint32          `json:"catalog_hash"`
	CatalogSource string          `json:"catalog_source"`
	Fallback      bool            `json:"fallback"`
	Summary       verify.Summary  `json:"summary"`
	Reports       []verify.Report `json:"reports"`
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var expectPath string
	var all bool
	var asJSON bool
	var count int
	var noSave bool
	var workers int

	cmd := &cobra.Command{
		Use:   "verify [user-id]",
		Short: "Compare reproduced sessions with logged sessions",
		Long: "Compare reproduced sessions with logged sessions.\n\n" +
			"With --expect, logged sessions come from a JSON fixture file; otherwise they come\n" +
			"from responses imported with `cgreplay import`. Pass a user id to check one user,\n" +
			"or --all to check every logged user. Exits non-zero when any user mismatches.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return errors.New("pass a user id or --all")
			}
			if len(args) == 1 && all {
				return errors.New("a user id cannot be combined with --all")
			}

			doc, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := loadReferenceRecords(cmd, s, expectPath, args)
			if err != nil {
				return err
			}

			n := ctx.pairCount(count)
			logger := logging.NewComponentLogger(ctx.log(), "verify")
			reports, err := verify.CheckAll(cmd.Context(), records, doc.Files, n, workers)
			if err != nil {
				return err
			}
			for _, report := range reports {
				logger.Debug("user checked",
					slog.String(logging.FieldUserID, report.UserID),
					logging.Seed(report.Seed),
					slog.Int("mismatches", len(report.Mismatches)),
					slog.String("cause", string(report.Cause)),
				)
			}

			result := verifyOutput{
				CatalogHash:   doc.Hash(),
				CatalogSource: doc.Source,
				Fallback:      doc.Fallback,
				Summary:       verify.Summarize(reports),
				Reports:       reports,
			}
			if !noSave {
				run, err := s.SaveRun(cmd.Context(), store.Run{
					CatalogHash:   result.CatalogHash,
					CatalogSource: doc.Source,
					Fallback:      doc.Fallback,
				}, reports)
				if err != nil {
					return fmt.Errorf("save run: %w", err)
				}
				result.RunID = run.ID
				runLogger := logging.WithContext(logging.WithRunID(cmd.Context(), run.ID), logger)
				runLogger.Info("verification run saved",
					slog.Int("users", run.Users),
					slog.Int("mismatched", run.Mismatched),
				)
			}

			if asJSON {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				printVerifyReport(cmd.OutOrStdout(), doc, result)
			}

			if result.Summary.Mismatched > 0 {
				return fmt.Errorf("%d of %d users mismatched", result.Summary.Mismatched, result.Summary.Users)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&expectPath, "expect", "e", "", "JSON fixture file with logged sessions")
	cmd.Flags().BoolVar(&all, "all", false, "Check every logged user")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().IntVarP(&count, "count", "n", -1, "Number of pairs (defaults to session.pair_count)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the run in the database")
	cmd.Flags().IntVar(&workers, "workers", 0, "Users checked concurrently (0 uses every CPU)")
	return cmd
}

func loadReferenceRecords(cmd *cobra.Command, s *store.Store, expectPath string, args []string) ([]reference.Record, error) {
	if expectPath != "" {
		records, err := reference.LoadFixtures(expectPath)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return records, nil
		}
		rec, ok := reference.Find(records, args[0])
		if !ok {
			return nil, fmt.Errorf("user %q not found in %s", args[0], expectPath)
		}
		return []reference.Record{rec}, nil
	}

	if len(args) == 0 {
		records, err := s.Records(cmd.Context())
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: import responses with `cgreplay import` or pass --expect", reference.ErrNoRecords)
		}
		return records, nil
	}
	rec, err := s.Record(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no logged session for %q: %w", args[0], err)
		}
		return nil, err
	}
	return []reference.Record{rec}, nil
}

func printVerifyReport(out io.Writer, doc catalog.Document, result verifyOutput) {
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Verification", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Catalog: %s (%d videos, hash %d)\n", catalogLabel(doc), doc.Len(), result.CatalogHash)
	for _, r := range result.Reports {
		if r.Matched() {
			fmt.Fprintln(out, renderStatusLine(r.UserID, statusOK,
				fmt.Sprintf("%d pairs match (seed %d)", len(r.Actual), r.Seed), colorize))
		} else {
			fmt.Fprintln(out, renderStatusLine(r.UserID, statusError,
				fmt.Sprintf("%d mismatches, cause %s (seed %d)", len(r.Mismatches), causeLabel(r.Cause), r.Seed), colorize))
			for _, m := range r.Mismatches {
				fmt.Fprintf(out, "%s  %s\n", statusIndent, m.String())
			}
		}
		if r.HashMismatch {
			fmt.Fprintln(out, renderStatusLine(r.UserID, statusWarn, "logged video list hash differs from the catalog", colorize))
		}
	}
	s := result.Summary
	fmt.Fprintf(out, "\n%d users: %d matched, %d mismatched\n", s.Users, s.Matched, s.Mismatched)
	if result.RunID != "" {
		fmt.Fprintf(out, "Run %s saved\n", result.RunID)
	}
}

func causeLabel(cause verify.Cause) string {
	if cause == verify.CauseNone {
		return "unknown"
	}
	return string(cause)
}
