package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	appconfig "github.com/edgeclaw/core/config"
	"github.com/edgeclaw/core/engine"
	"github.com/edgeclaw/core/internal/logger"
	"github.com/edgeclaw/core/internal/metrics"
)

var metricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the agent: generate an identity, connect to the desktop counterpart, and serve metrics",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address to serve Prometheus metrics on")
}

func runServe(cmd *cobra.Command, args []string) error {
	var cfg *appconfig.Config
	var err error
	if configPath != "" {
		cfg, err = appconfig.LoadFromFile(configPath)
	} else {
		cfg, err = appconfig.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:              metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorMsg("metrics server exited", logger.Error(err))
		}
	}()

	eng := engine.New(cfg.Engine)
	defer eng.Close()

	id, err := eng.GenerateIdentity()
	if err != nil {
		return fmt.Errorf("generate identity: %w", err)
	}
	logger.Info("identity generated",
		logger.String("device_id", id.DeviceID),
		logger.String("fingerprint", id.Fingerprint))

	eng.InitSync(cfg.Sync)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Sync.ConnectTimeout)
	connectErr := eng.SyncConnect(ctx)
	cancel()
	if connectErr != nil {
		logger.Warn("sync connect failed, continuing without desktop counterpart",
			logger.Error(connectErr))
	} else {
		logger.Info("sync connected", logger.String("desktop_address", cfg.Sync.DesktopAddress))
	}

	logger.Info("edgeclaw-agent running",
		logger.String("device_name", cfg.Engine.DeviceName),
		logger.Int("listen_port", cfg.Engine.ListenPort),
		logger.String("metrics_addr", metricsAddr))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	if err := eng.SyncShutdown(); err != nil {
		logger.Warn("sync shutdown error", logger.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return metricsServer.Shutdown(shutdownCtx)
}
