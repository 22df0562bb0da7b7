package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stoicbot/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger(true, os.Stdout)

	cfg, err := loadConfig()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	lib, closeLib, err := buildLibrary(cfg, log, true)
	if err != nil {
		log.Error("library init failed", "error", err)
		return err
	}
	defer closeLib()

	// Initial parse. A failure here is fatal: with nothing published
	// there is nothing to serve.
	if err := lib.Reload(cfg.BookPath); err != nil {
		log.Error("initial parse failed", "path", cfg.BookPath, "error", err)
		return err
	}

	srv := api.NewServer(lib, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting stoicbot", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
