package config

import (
	"fmt"
	"strings"

	"github.com/avalenz/inventario/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	Inventory InventoryConfig `koanf:"inventory"`
	Report    ReportConfig    `koanf:"report"`
	Log       LogConfig       `koanf:"log"`
}

type InventoryConfig struct {
	// File is the path of the backing inventory file.
	File string `koanf:"file"`
}

type ReportConfig struct {
	LowStockThreshold int64 `koanf:"low_stock_threshold"`
	TopSellers        int   `koanf:"top_sellers"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// Defaults returns the built-in configuration values, overridable by the
// config file and environment.
func Defaults() map[string]any {
	return map[string]any{
		"inventory.file":             "inventario.csv",
		"report.low_stock_threshold": 5,
		"report.top_sellers":         3,
		"log.level":                  "info",
	}
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Inventory Configuration ---\n")
	b.WriteString(fmt.Sprintf("  inventory.file: %s\n", c.Inventory.File))

	b.WriteString("\n--- Report Configuration ---\n")
	b.WriteString(fmt.Sprintf("  report.low_stock_threshold: %d\n", c.Report.LowStockThreshold))
	b.WriteString(fmt.Sprintf("  report.top_sellers: %d\n", c.Report.TopSellers))

	b.WriteString("\n--- Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))

	return b.String()
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.Inventory.File == "" {
		return fmt.Errorf("inventory.file must not be empty")
	}
	if c.Report.LowStockThreshold < 0 {
		return fmt.Errorf("report.low_stock_threshold must not be negative")
	}
	if c.Report.TopSellers <= 0 {
		return fmt.Errorf("report.top_sellers must be positive")
	}
	return nil
}
