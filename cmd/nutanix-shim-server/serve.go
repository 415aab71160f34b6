package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhrivnak/nutanix-shim/pkg/api"
	"github.com/mhrivnak/nutanix-shim/pkg/config"
	"github.com/mhrivnak/nutanix-shim/pkg/log"
	"github.com/mhrivnak/nutanix-shim/pkg/shim"
	"github.com/mhrivnak/nutanix-shim/pkg/version"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the shim API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger := log.InitLog(log.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrConfigurationMissing) {
			logger.Fatal("Nutanix connection is not configured", zap.Error(err))
		}
		return err
	}

	logger.Info("Starting nutanix shim",
		zap.String("version", version.Get().String()),
		zap.String("nutanix_host", cfg.Nutanix.Host),
		zap.Int("nutanix_port", cfg.Nutanix.Port),
		zap.Bool("verify_ssl", cfg.Nutanix.VerifySSL))
	defer logger.Info("Nutanix shim stopped")

	adapters, err := shim.NewAdapters(shim.ConnectionFromConfig(cfg, logger), logger)
	if err != nil {
		return err
	}

	server, err := api.NewServer(cfg, adapters.ClusterMgmt, adapters.VMM, adapters.Networking, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer cancel()
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
