package main

import (
	"fmt"

	"github.com/scrapyard/trashpoker/cmd/trashpoker/shared"
	"github.com/scrapyard/trashpoker/internal/server"
)

// ServeCmd runs the multi-player WebSocket server
type ServeCmd struct {
	Config string `kong:"default='trashpoker.hcl',help='HCL configuration file'"`
	Addr   string `kong:"help='Override the configured listen address'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	gameService, err := server.NewGameService(cfg.Game.DataDir, cfg.Catalog(), cfg.GameConfig(), cfg.Game.Seed, logger)
	if err != nil {
		return fmt.Errorf("creating game service: %w", err)
	}

	s := server.NewServer(addr, gameService, logger)

	logger.Info("Starting trashpoker server",
		"address", addr,
		"data_dir", cfg.Game.DataDir,
		"settle_delay_ms", cfg.Game.SettleDelayMS,
	)

	// Setup graceful shutdown
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		return s.Stop()
	}
}
