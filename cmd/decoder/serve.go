package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goran-ethernal/ChainDecoder/internal/batch"
	"github.com/goran-ethernal/ChainDecoder/internal/common"
	"github.com/goran-ethernal/ChainDecoder/internal/config"
	"github.com/goran-ethernal/ChainDecoder/internal/logger"
	"github.com/goran-ethernal/ChainDecoder/internal/metrics"
	"github.com/goran-ethernal/ChainDecoder/pkg/api"
	"github.com/goran-ethernal/ChainDecoder/pkg/catalog"
	"github.com/spf13/cobra"
)

var errAPIDisabled = errors.New("api is not enabled in configuration")

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decoding REST API",
		Long: `Serve loads the configured contracts and exposes them through the REST API,
together with the Prometheus metrics endpoint when metrics are enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")

	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	fmt.Fprintf(cmd.ErrOrStderr(), banner, version)

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.API == nil || !cfg.API.Enabled {
		return errAPIDisabled
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.Logging)
	logger.SetDefaultLogger(log)
	defer func() { _ = log.Close() }()

	cat, err := catalog.New(cfg.Contracts, logger.NewComponentLoggerFromConfig(common.ComponentCatalog, cfg.Logging))
	if err != nil {
		return err
	}

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics,
			logger.NewComponentLoggerFromConfig(common.ComponentMetrics, cfg.Logging))
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(context.Background()); err != nil {
				log.Warnf("Failed to stop metrics server: %v", err)
			}
		}()
	}

	dec := batch.New(cfg.Decoder, logger.NewComponentLoggerFromConfig(common.ComponentBatch, cfg.Logging))

	server := api.NewServer(cfg.API, cat, dec, log)
	if err := server.Start(ctx); err != nil {
		return err
	}

	log.Info("ChainDecoder stopped successfully")
	return nil
}
