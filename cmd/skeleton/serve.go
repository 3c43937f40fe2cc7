package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/skeleton/internal/bootstrap"
	"github.com/creamcroissant/skeleton/internal/support/logging"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides http.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := appConfig
	if cmd.Flags().Changed("port") {
		cfg.HTTP.Port = servePort
	}

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Writer:    cmd.OutOrStdout(),
		Attrs: []slog.Attr{
			slog.String("env", cfg.Log.Environment),
			slog.String("version", Version),
		},
	})
	if cfg.Source != "" {
		logger.Info("config loaded", "file", cfg.Source)
	}

	srv := bootstrap.NewServer(cfg, logger)
	if err := bootstrap.Run(ctx, srv, cfg.HTTP.ShutdownTimeout); err != nil {
		return err
	}
	logger.Info("server exited cleanly")
	return nil
}
