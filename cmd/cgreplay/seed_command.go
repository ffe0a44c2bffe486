package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cgreplay/internal/seed"
)

type seedRow struct {
	UserID     string `json:"user_id"`
	Seed       uint32 `json:"seed"`
	LegacySeed uint32 `json:"legacy_seed"`
	Diverges   bool   `json:"diverges"`
	Normalized bool   `json:"normalized"`
}

func newSeedCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "seed <user-id>...",
		Short:       "Show the session seed derived from user ids",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]seedRow, 0, len(args))
			for _, id := range args {
				rows = append(rows, seedRow{
					UserID:     id,
					Seed:       seed.FromString(id),
					LegacySeed: seed.FromStringLegacy(id),
					Diverges:   seed.Diverges(id),
					Normalized: seed.IsNormalized(id),
				})
			}
			if asJSON {
				return writeJSON(cmd, rows)
			}

			table := make([][]string, 0, len(rows))
			var unnormalized int
			for _, r := range rows {
				table = append(table, []string{
					r.UserID,
					strconv.FormatUint(uint64(r.Seed), 10),
					strconv.FormatUint(uint64(r.LegacySeed), 10),
					yesNo(r.Diverges),
					yesNo(r.Normalized),
				})
				if !r.Normalized {
					unnormalized++
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"User ID", "Seed", "Legacy seed", "Diverges", "NFC"},
				table,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			if unnormalized > 0 {
				fmt.Fprintf(out, "%d id(s) are not NFC-normalized; they hash by their exact code points.\n", unnormalized)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
