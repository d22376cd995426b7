package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/savemoney/internal/api"
	"github.com/Veraticus/savemoney/internal/metrics"
	"github.com/Veraticus/savemoney/internal/stt"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", ":8000", "listen address")
	cmd.Flags().StringSlice("cors-origin", nil, "allowed CORS origins (default: any)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.cors_origins", cmd.Flags().Lookup("cors-origin"))
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	m := metrics.New()
	engine, err := newEngine(m)
	if err != nil {
		return err
	}

	transcriber, err := initTranscriber()
	switch {
	case errors.Is(err, stt.ErrUnavailable):
		slog.Warn("speech recognition not configured, /api/v1/audio/transcribe will return 503")
		transcriber = nil
	case err != nil:
		return err
	}

	ledger, err := initLedger(ctx)
	if err != nil {
		return err
	}
	if ledger.Simulated() {
		slog.Warn("Google Sheets not configured, saving to the simulated ledger")
	}

	journal, err := initJournal(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	server := api.NewServer(api.Options{
		Processor:      engine,
		Transcriber:    transcriber,
		Ledger:         ledger,
		Journal:        journal,
		Metrics:        m,
		Logger:         slog.Default(),
		Version:        version,
		AllowedOrigins: viper.GetStringSlice("server.cors_origins"),
	})

	addr := viper.GetString("server.addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API listening", "addr", addr, "model_enabled", engine.ModelEnabled(), "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
