package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cgreplay/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded verification runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List verification runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				runs, err := s.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No verification runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, r := range runs {
					rows = append(rows, []string{
						r.ID,
						r.StartedAt.Local().Format(time.DateTime),
						strconv.Itoa(r.Users),
						strconv.Itoa(r.Mismatched),
						strconv.FormatUint(uint64(r.CatalogHash), 10),
						yesNo(r.Fallback),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Started", "Users", "Mismatched", "Catalog hash", "Fallback"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

type runDetail struct {
	store.Run
	Results    []store.RunResult   `json:"results"`
	Mismatches []store.RunMismatch `json:"mismatches"`
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-user results of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(s *store.Store) error {
				run, err := s.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				results, err := s.RunResults(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				mismatches, err := s.RunMismatches(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				detail := runDetail{Run: run, Results: results, Mismatches: mismatches}
				if asJSON {
					return writeJSON(cmd, detail)
				}

				out := cmd.OutOrStdout()
				source := run.CatalogSource
				if run.Fallback {
					source += " (fallback)"
				}
				fmt.Fprintln(out, renderFields([][2]string{
					{"Run", run.ID},
					{"Started", run.StartedAt.Local().Format(time.RFC3339)},
					{"Catalog", source},
					{"Catalog hash", strconv.FormatUint(uint64(run.CatalogHash), 10)},
					{"Users", strconv.Itoa(run.Users)},
					{"Mismatched", strconv.Itoa(run.Mismatched)},
				}))

				rows := make([][]string, 0, len(results))
				for _, r := range results {
					rows = append(rows, []string{
						r.UserID,
						strconv.FormatUint(uint64(r.Seed), 10),
						strconv.Itoa(r.Mismatches),
						string(r.Cause),
						yesNo(r.HashMismatch),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"User ID", "Seed", "Mismatches", "Cause", "Hash mismatch"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight},
				))
				for _, m := range mismatches {
					fmt.Fprintf(out, "%s: %s\n", m.UserID, m.Mismatch.String())
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
