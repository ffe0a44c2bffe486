package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cgreplay/internal/httpapi"
	"cgreplay/internal/logging"
	"cgreplay/internal/pairs"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve seeds and sessions over HTTP",
		Long: "Serve read-only JSON endpoints for seeds and reproduced sessions:\n\n" +
			"  GET /healthz\n" +
			"  GET /v1/seed/{userID}\n" +
			"  GET /v1/sessions/{userID}?count=N\n" +
			"  GET /v1/catalog\n\n" +
			"The catalog is read once at startup.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			doc, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}
			if doc.Len() < 2 {
				return fmt.Errorf("catalog %s: %w", catalogLabel(doc), pairs.ErrInsufficientCatalog)
			}

			addr := cfg.Server.Bind
			if b := strings.TrimSpace(bind); b != "" {
				addr = b
			}

			logger := ctx.log()
			logger.Info("starting api server",
				slog.String("bind", addr),
				slog.String(logging.FieldCatalog, doc.Source),
				slog.Bool("fallback", doc.Fallback),
				slog.Uint64("catalog_hash", uint64(doc.Hash())),
			)

			srv := httpapi.New(httpapi.Options{
				Bind:           addr,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Catalog:        doc,
				PairCount:      cfg.Session.PairCount,
				Logger:         logger,
			})

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(runCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to server.bind)")
	return cmd
}
