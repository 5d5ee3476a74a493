// Package main is the jointstream entry point: it loads configuration,
// registers device drivers, and runs the service manager until a shutdown
// signal arrives.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/jointstream/config"
	"github.com/c360/jointstream/device"
	"github.com/c360/jointstream/device/simarm"
	"github.com/c360/jointstream/service"
)

// Build information constants
const (
	Version = "1.0.0"
	appName = "jointstream"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	logger.Info("starting jointstream", "config_path", cliCfg.ConfigPath)

	cfg, err := config.LoadFile(cliCfg.ConfigPath)
	if err != nil {
		return err
	}
	if cliCfg.Validate {
		logger.Info("configuration is valid",
			"wrappers", len(cfg.Wrappers))
		return nil
	}

	drivers := device.NewRegistry()
	if err := simarm.Register(drivers); err != nil {
		return err
	}

	manager, err := service.NewManager(service.Options{
		Config:   cfg,
		Drivers:  drivers,
		Logger:   logger,
		HTTPAddr: cliCfg.HTTPAddr,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := manager.Start(ctx); err != nil {
		return err
	}

	return waitForShutdown(ctx, manager, cliCfg.ShutdownTimeout, logger)
}

func waitForShutdown(ctx context.Context, manager *service.Manager, timeout time.Duration, logger *slog.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return manager.Stop(shutdownCtx, timeout)
}
