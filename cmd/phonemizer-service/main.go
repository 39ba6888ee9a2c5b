// main package for the phonemizer-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/logger"
	"github.com/book-expert/phonemizer/internal/config"
	"github.com/book-expert/phonemizer/internal/core"
	"github.com/book-expert/phonemizer/internal/g2p"
	"github.com/book-expert/phonemizer/internal/objectstore"
	"github.com/book-expert/phonemizer/internal/phonemizer"
	"github.com/book-expert/phonemizer/internal/worker"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

func setupLogger(logPath, fileName string) (*logger.Logger, error) {
	log, err := logger.New(logPath, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run(ctx context.Context) error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir(), "phonemizer-service-bootstrap.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	bootstrapLog.Info("Bootstrap logger created.")

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir, "phonemizer-service.log")
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	// 4. Connect to NATS and bind the buckets
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		finalLog.Error("Failed to connect to NATS at %s: %v", cfg.NATS.URL, err)

		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsConnection.Close()

	js, err := jetstream.New(natsConnection)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	textStore, err := objectstore.New(ctx, js, cfg.NATS.TextObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to open text bucket: %w", err)
	}

	phonemeStore, err := objectstore.New(ctx, js, cfg.NATS.PhonemeObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to open phoneme bucket: %w", err)
	}

	// 5. Build the phonemizer and the worker
	adapter := g2p.NewAdapter(g2p.NewGoruut(), finalLog)
	processor := phonemizer.NewDocumentProcessor(phonemizer.New(adapter), core.PhonemizeConfig{
		Voice:         cfg.Phonemizer.DefaultVoice,
		Normalize:     cfg.NormalizeEnabled(),
		MaxChunkChars: cfg.Phonemizer.MaxChunkChars,
	})

	natsWorker, err := worker.NewNatsWorker(
		natsConnection, cfg.NATS.PhonemizeSubject, textStore, phonemeStore, processor, finalLog,
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	finalLog.System(
		"Phonemizer-Service successfully initialized. Listening for jobs on subject: %s",
		cfg.NATS.PhonemizeSubject,
	)

	err = natsWorker.Run(ctx)
	if err != nil {
		finalLog.Error("Worker stopped with error: %v", err)

		return fmt.Errorf("worker stopped: %w", err)
	}

	finalLog.System("Phonemizer-Service shut down cleanly.")

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
