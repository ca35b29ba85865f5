package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dictation/internal/lessonstore/memory"
	"dictation/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve [files...]",
		Short: "Run the segmentation HTTP server, optionally serving lessons built from files",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireApp()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				a.cfg.Server.ListenAddr = listen
			}

			store := memory.NewStorage()
			if len(args) > 0 {
				lessons, err := a.svc.IngestDocuments(cmd.Context(), args)
				if err != nil {
					return err
				}
				if err := store.Upsert(lessons); err != nil {
					return err
				}
			}

			h := server.NewHandler(a.svc,
				server.WithMaxTextBytes(a.cfg.Server.MaxTextBytes),
				server.WithTokenizerName(a.seg.TokenizerName()),
				server.WithLessons(store),
				server.WithLogger(slog.Default()),
			)
			srv := server.New(a.cfg.Server.ListenAddr, h).
				WithShutdownTimeout(time.Duration(a.cfg.Server.ShutdownTimeoutSecs) * time.Second).
				WithLogger(slog.Default())

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides server.listen_addr)")

	return cmd
}
