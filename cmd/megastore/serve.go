package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"megastore/internal/cms"
	"megastore/internal/config"
	"megastore/internal/http/handlers"
	applog "megastore/internal/log"
	"megastore/internal/repos"
)

const (
	closeTimeout = 5 * time.Second
	rateLimit    = 60 // requests per minute per client
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP storefront",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.String("port", "", "listen port")
	f.String("db-dsn", "", "sqlite database file, :memory: for a throwaway store")
	f.String("log-file", "", "also append logs to this file")
	f.String("log-level", "", "debug, info, warn or error")
	f.String("templates-dir", "", "html templates directory")
	f.String("static-dir", "", "static assets directory")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := applog.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer applog.Replace(logger)()
	defer func() { _ = logger.Sync() }()
	logger.Info("config loaded", zap.Any("config", cfg.Fields()))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		logger.Error("open db", zap.Error(err))
		return err
	}
	defer db.Close()

	deps := handlers.NewDeps(db, cms.New(cfg.APIBaseURL, cfg.CMSTimeout), cfg)
	loaded := deps.Catalog.Start(ctx)
	go func() {
		<-loaded
		if err := deps.Catalog.Err(); err != nil {
			logger.Error("catalog load", zap.Error(err))
			return
		}
		_, products := deps.Catalog.Snapshot()
		logger.Info("catalog loaded", zap.Int("products", len(products)))
	}()

	app := handlers.NewApp(handlers.Options{
		TemplatesDir: cfg.TemplatesDir,
		StaticDir:    cfg.StaticDir,
		RateLimit:    rateLimit,
		AccessLog:    os.Stdout,
	}, deps)

	errc := make(chan error, 1)
	go func() { errc <- app.Listen(":" + cfg.Port) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
