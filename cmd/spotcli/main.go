// Package main запускает интерактивный клиент Spotify.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"spotcli/internal/app"
	"spotcli/internal/config"
	"spotcli/internal/dispatcher"
	"spotcli/internal/domain/types"
	"spotcli/internal/gateway/spotify"
	"spotcli/pkg/logger"
)

var _ dispatcher.Remote = (*spotify.Client)(nil)

func main() {
	configPath := flag.String("config", "", "path to the TOML settings file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Загрузка конфигурации
	cfg, err := config.Load(configPath)
	if err != nil {
		return types.NewStartupError(types.StageConfig, err)
	}

	// Инициализация логгера
	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return types.NewStartupError(types.StageLogger, err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Configuration loaded", zap.String("path", cfg.Path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info("Shutdown signal received", zap.Stringer("signal", sig))
			cancel()
		case <-ctx.Done():
		}
	}()

	api, err := spotify.Authenticate(ctx, cfg.Spotify, cfg.HTTP.Timeout, log.Named("auth"), os.Stdout)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("Exiting...")
			return nil
		}
		log.Error("Authentication failed", zap.Error(err))
		return types.NewStartupError(types.StageAuth, err)
	}

	retry := spotify.RetryConfig{
		MaxRetries:        cfg.Retry.MaxRetries,
		InitialDelay:      cfg.Retry.InitialDelay,
		MaxDelay:          cfg.Retry.MaxDelay,
		BackoffMultiplier: cfg.Retry.BackoffMultiplier,
	}
	client := spotify.NewClient(api, retry, log.Named("spotify"))

	application, err := app.New(cfg, client, log)
	if err != nil {
		return types.NewStartupError(types.StageConfig, err)
	}

	if err := application.Run(ctx); err != nil {
		log.Error("Client stopped with error", zap.Error(err))
		return err
	}

	log.Info("Client stopped successfully")
	return nil
}
