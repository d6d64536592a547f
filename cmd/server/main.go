// Package main - Entry point for the chargebee-prices HTTP server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chargebee-prices/adapters/chargebee"
	"chargebee-prices/api"
	"chargebee-prices/internal/config"
	"chargebee-prices/internal/logging"
	"chargebee-prices/internal/metrics"
)

const version = "0.1.0"

func main() {
	cfgFile := flag.String("config", "", "config file (.json, .yaml, .toml or .hcl)")
	addr := flag.String("addr", "", "server address (overrides server.address)")
	flag.Parse()

	if err := run(*cfgFile, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgFile, addr string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Address = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()
	log := logging.Logger

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := chargebee.New(cfg.ChargebeeClientConfig(), log)
	if err != nil {
		return err
	}

	m := metrics.New()
	opts := cfg.CatalogOptions()
	opts.Failures = m
	handler := api.NewHandler(m.Instrument(client), opts, m, log)
	server := api.NewServer(handler, api.ServerOptions{
		Version: version,
		Metrics: m.Handler(),
		Logger:  log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(cfg.Server.Address, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}()

	select {
	case err := <-errCh:
		return serveResult(err)
	case <-ctx.Done():
	}

	log.Info("Shutting down", zap.String("version", version))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return serveResult(<-errCh)
}

// serveResult treats a stop caused by Shutdown as success
func serveResult(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
