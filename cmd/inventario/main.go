// Package main runs the interactive inventory manager.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avalenz/inventario/internal/cli"
	"github.com/avalenz/inventario/internal/config"
	"github.com/avalenz/inventario/internal/report"
	"github.com/avalenz/inventario/internal/service"
	"github.com/avalenz/inventario/internal/store"
	"github.com/avalenz/inventario/pkg/bootstrap"
	"github.com/avalenz/inventario/pkg/config/configloader"
)

const appName = "inventario"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
}

// run loads the configuration, opens the backing file and hands control to
// the menu loop until the user exits.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](appName, config.Defaults())
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	logger.Debug("configuration loaded", slog.String("config", cfg.String()))

	fileStore := store.NewFileStore(cfg.Inventory.File)
	if err := fileStore.Load(); err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}
	products, err := fileStore.FindAll()
	if err != nil {
		return fmt.Errorf("failed to read inventory: %w", err)
	}
	logger.Info("inventory loaded",
		slog.String("file", cfg.Inventory.File),
		slog.Int("products", len(products)))

	inventoryService := service.NewService(fileStore)
	reportService := report.NewService(fileStore)
	menu := cli.NewMenu(os.Stdin, os.Stdout, inventoryService, reportService, cfg.Report, logger)

	if err := menu.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("menu loop failed: %w", err)
	}
	logger.Info("session ended")
	return nil
}
