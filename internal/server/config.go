package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/scrapyard/trashpoker/internal/economy"
	"github.com/scrapyard/trashpoker/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
	Prices []PriceConfig  `hcl:"price,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// GameSettings contains table-level configuration shared by all players.
type GameSettings struct {
	DataDir       string `hcl:"data_dir,optional"`
	SettleDelayMS int    `hcl:"settle_delay_ms,optional"`
	Seed          int64  `hcl:"seed,optional"`
}

// PriceConfig overrides one shop item's price.
type PriceConfig struct {
	Item   string `hcl:"item,label"`
	Amount int    `hcl:"amount"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			DataDir:       "saves",
			SettleDelayMS: 3000,
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Game.DataDir == "" {
		config.Game.DataDir = "saves"
	}
	if config.Game.SettleDelayMS == 0 {
		config.Game.SettleDelayMS = 3000
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Game.SettleDelayMS < 0 {
		return fmt.Errorf("settle delay must not be negative: %d", c.Game.SettleDelayMS)
	}

	for _, price := range c.Prices {
		if price.Amount <= 0 {
			return fmt.Errorf("price %s: amount must be positive", price.Item)
		}
		if price.Item == string(economy.ItemCompoundInterest) {
			return fmt.Errorf("price %s: compound interest price escalates and cannot be overridden", price.Item)
		}
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameConfig returns the per-session pacing configuration.
func (c *ServerConfig) GameConfig() game.Config {
	return game.Config{SettleDelay: time.Duration(c.Game.SettleDelayMS) * time.Millisecond}
}

// Catalog builds the shop catalog with any configured price overrides.
func (c *ServerConfig) Catalog() *economy.Catalog {
	if len(c.Prices) == 0 {
		return economy.NewCatalog()
	}
	prices := make(map[economy.Item]int, len(c.Prices))
	for _, price := range c.Prices {
		prices[economy.Item(price.Item)] = price.Amount
	}
	return economy.NewCatalog(economy.WithPrices(prices))
}
