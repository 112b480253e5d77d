// Package cmd implements the ragent CLI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adler0/ragent/internal/app"
	"github.com/adler0/ragent/internal/config"
	"github.com/adler0/ragent/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "ragent",
	Short: "ragent answers questions over an indexed knowledge base",
	Long: `ragent is a retrieval-augmented question answering agent.

Index source material with "ragent index", then ask questions with
"ragent ask". The agent decides per question whether to consult the
knowledge base, grades what it retrieves, and reformulates the question
when retrieval comes back empty-handed.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is the single entry point called from
// main.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration, builds the logger, and assembles the
// application. The caller owns the returned App and must Close it.
func setup(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), JSON: cfg.LogJSON})

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing application: %w", err)
	}
	return a, nil
}
