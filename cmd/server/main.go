package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/seojindev/minwon/internal/api"
	"github.com/seojindev/minwon/internal/config"
	"github.com/seojindev/minwon/internal/extract"
	"github.com/seojindev/minwon/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the NER extractor.
	ner := extract.NewOrchestrator(extract.BackendConfig{
		PrimaryURL:    cfg.PrimaryURL,
		SecondaryURL:  cfg.SecondaryURL,
		SecondaryKey:  cfg.SecondaryKey,
		Timeout:       cfg.NERTimeout,
		MaxChunkRunes: cfg.MaxChunkRunes,
	}, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, ner, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting requests before closing the job queue so an
		// in-flight analyze cannot submit to a closed pipeline.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		ner.Close()
	}()

	log.Info("starting minwon", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
