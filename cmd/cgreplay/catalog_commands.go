package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cgreplay/internal/catalog"
	"cgreplay/internal/config"
	"cgreplay/internal/fileutil"
	"cgreplay/internal/logging"
	"cgreplay/internal/pairs"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect, hash, and generate video catalogs",
	}
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogHashCommand(ctx))
	catalogCmd.AddCommand(newCatalogGenerateCommand(ctx))
	return catalogCmd
}

type catalogSummary struct {
	Source       string   `json:"source"`
	Fallback     bool     `json:"fallback"`
	Count        int      `json:"count"`
	PairTotal    int      `json:"pair_total"`
	Hash         uint32   `json:"hash"`
	RecordedHash string   `json:"recorded_hash,omitempty"`
	HashDrift    bool     `json:"hash_drift"`
	Version      string   `json:"version,omitempty"`
	GeneratedAt  string   `json:"generated_at,omitempty"`
	Files        []string `json:"files"`
}

func summarizeCatalog(doc catalog.Document) catalogSummary {
	files := doc.Files
	if files == nil {
		files = []string{}
	}
	return catalogSummary{
		Source:       doc.Source,
		Fallback:     doc.Fallback,
		Count:        doc.Len(),
		PairTotal:    pairs.Total(doc.Len()),
		Hash:         doc.Hash(),
		RecordedHash: doc.RecordedHash,
		HashDrift:    doc.HashDrift(),
		Version:      doc.Version,
		GeneratedAt:  doc.GeneratedAt,
		Files:        files,
	}
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved catalog in served order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}
			summary := summarizeCatalog(doc)
			if asJSON {
				return writeJSON(cmd, summary)
			}

			fields := [][2]string{
				{"Source", catalogLabel(doc)},
				{"Videos", strconv.Itoa(summary.Count)},
				{"Pairs", strconv.Itoa(summary.PairTotal)},
				{"Hash", strconv.FormatUint(uint64(summary.Hash), 10)},
			}
			if summary.RecordedHash != "" {
				fields = append(fields, [2]string{"Recorded hash", summary.RecordedHash})
			}
			if summary.Version != "" {
				fields = append(fields, [2]string{"Version", summary.Version})
			}
			if summary.GeneratedAt != "" {
				fields = append(fields, [2]string{"Generated", summary.GeneratedAt})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderFields(fields))

			rows := make([][]string, 0, len(summary.Files))
			for i, f := range summary.Files {
				rows = append(rows, []string{strconv.Itoa(i), f})
			}
			fmt.Fprintln(out, renderTable([]string{"Index", "File"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCatalogHashCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hash [catalog.json]",
		Short: "Print the video list hash of a catalog",
		Long: "Print the video list hash the web client records with each response.\n\n" +
			"Without an argument the configured catalog is hashed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				doc catalog.Document
				err error
			)
			if len(args) == 1 {
				doc, err = catalog.Load(args[0])
			} else {
				doc, err = ctx.loadCatalog(cmd)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc.Hash())
			return nil
		},
	}
}

func newCatalogGenerateCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var plain bool
	var toStdout bool
	var extensions []string

	cmd := &cobra.Command{
		Use:   "generate <video-dir>",
		Short: "Build a catalog document from a directory of videos",
		Long: "Build a catalog document from a directory of videos.\n\n" +
			"Files are matched by extension, listed with forward slashes, and sorted. The\n" +
			"resulting order defines every pair ordinal, so regenerate only when the video set\n" +
			"is meant to change.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			exts := cfg.Catalog.Extensions
			if len(extensions) > 0 {
				exts = extensions
			}

			files, err := catalog.Scan(args[0], exts)
			if err != nil {
				return err
			}
			if len(files) < 2 {
				return fmt.Errorf("%s: %d matching files (%s): %w", args[0], len(files), strings.Join(exts, ", "), pairs.ErrInsufficientCatalog)
			}
			doc := catalog.NewDocument(files, time.Now())

			if toStdout {
				data, err := doc.Marshal(plain)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = cfg.Catalog.Path
			}
			if target == "" {
				target = "video_list.json"
			}
			if target, err = config.ExpandPath(target); err != nil {
				return err
			}
			backup, err := fileutil.BackupFile(target)
			if err != nil {
				return fmt.Errorf("back up %s: %w", target, err)
			}
			if err := catalog.WriteDocument(target, doc, plain); err != nil {
				return err
			}
			ctx.log().Info("catalog generated",
				slog.String(logging.FieldCatalog, target),
				slog.Int("files", doc.Len()),
				slog.Uint64("hash", uint64(doc.Hash())),
			)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d videos to %s (hash %d)\n", doc.Len(), target, doc.Hash())
			if backup != "" {
				fmt.Fprintf(out, "Previous catalog saved to %s\n", backup)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (defaults to catalog.path)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Write a plain JSON list instead of a versioned document")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the document instead of writing a file")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "File extensions to include (defaults to catalog.extensions)")
	return cmd
}
