package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cgreplay/internal/catalog"
	"cgreplay/internal/logging"
	"cgreplay/internal/pairs"
)

const (
	formatTSV   = "tsv"
	formatCSV   = "csv"
	formatTable = "table"
	formatJSON  = "json"
)

type pairsOutput struct {
	UserID        string               `json:"user_id"`
	Seed          uint32               `json:"seed"`
	CatalogHash   uint32               `json:"catalog_hash"`
	CatalogSource string               `json:"catalog_source"`
	Fallback      bool                 `json:"fallback"`
	Pairs         []pairs.OrientedPair `json:"pairs"`
}

func newPairsCommand(ctx *commandContext) *cobra.Command {
	var format string
	var count int
	var savePath string

	cmd := &cobra.Command{
		Use:   "pairs <user-id>",
		Short: "Reproduce the ordered video pairs a user was shown",
		Long: "Reproduce the ordered, oriented video pairs assigned to a user.\n\n" +
			"The user id is hashed exactly as given; surrounding whitespace and case are significant.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case formatTSV, formatCSV, formatTable, formatJSON:
			default:
				return fmt.Errorf("unsupported format %q (use tsv, csv, table, or json)", format)
			}

			doc, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}
			userID := args[0]
			session, err := pairs.Reproduce(userID, doc.Files, ctx.pairCount(count))
			if err != nil {
				return fmt.Errorf("reproduce pairs: %w", err)
			}
			ctx.log().Debug("session reproduced",
				slog.String(logging.FieldUserID, userID),
				logging.Seed(session.Seed),
				slog.Int("pairs", len(session.Pairs)),
			)

			result := pairsOutput{
				UserID:        userID,
				Seed:          session.Seed,
				CatalogHash:   doc.Hash(),
				CatalogSource: doc.Source,
				Fallback:      doc.Fallback,
				Pairs:         session.Pairs,
			}

			var body bytes.Buffer
			if err := renderPairs(&body, format, result); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != formatJSON {
				fmt.Fprintf(out, "User ID: %s\n", userID)
				fmt.Fprintf(out, "Video list hash: %d\n\n", result.CatalogHash)
			}
			if savePath != "" {
				if err := saveOutput(savePath, body.Bytes()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved pairs to %s\n", savePath)
				return nil
			}
			_, err = out.Write(body.Bytes())
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTSV, "Output format: tsv, csv, table, or json")
	cmd.Flags().IntVarP(&count, "count", "n", -1, "Number of pairs (defaults to session.pair_count)")
	cmd.Flags().StringVar(&savePath, "save", "", "Write the pairs to a file instead of stdout")
	return cmd
}

func renderPairs(w io.Writer, format string, result pairsOutput) error {
	switch format {
	case formatJSON:
		return encodeJSON(w, result)
	case formatCSV:
		return writePairsCSV(w, result.Pairs)
	case formatTable:
		rows := make([][]string, 0, len(result.Pairs))
		for i, p := range result.Pairs {
			rows = append(rows, []string{strconv.Itoa(i + 1), p.Scene, p.VideoA, p.VideoB, yesNo(p.Swapped)})
		}
		_, err := fmt.Fprintln(w, renderTable(
			[]string{"#", "Scene", "Video A", "Video B", "Swapped"},
			rows,
			[]columnAlignment{alignRight},
		))
		return err
	default:
		return writePairsTSV(w, result.Pairs)
	}
}

// writePairsTSV keeps the fixed-width, tab-separated layout the study's
// analysis notes were written against.
func writePairsTSV(w io.Writer, list []pairs.OrientedPair) error {
	if _, err := fmt.Fprintf(w, "%-10s\t%-50s\t%-50s\n", "Scene", "VideoA", "VideoB"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 110)); err != nil {
		return err
	}
	for _, p := range list {
		if _, err := fmt.Fprintf(w, "%-10s\t%-50s\t%-50s\n", p.Scene, p.VideoA, p.VideoB); err != nil {
			return err
		}
	}
	return nil
}

func writePairsCSV(w io.Writer, list []pairs.OrientedPair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Scene", "VideoA", "VideoB"}); err != nil {
		return err
	}
	for _, p := range list {
		if err := cw.Write([]string{p.Scene, p.VideoA, p.VideoB}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// catalogLabel describes where a document came from for text output.
func catalogLabel(doc catalog.Document) string {
	if doc.Fallback {
		return "fallback list"
	}
	return doc.Source
}
