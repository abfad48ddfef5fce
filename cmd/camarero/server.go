package main

import (
	"github.com/coder/quartz"

	"github.com/ilcamarero/camarero/cmd/camarero/shared"
	"github.com/ilcamarero/camarero/internal/server"
)

// ServerCmd contains core server configuration
type ServerCmd struct {
	Addr     string `kong:"help='Server address, overrides the config file'"`
	Config   string `kong:"default='camarero.hcl',help='HCL config file'"`
	WindowMs int    `kong:"help='Challenge window in milliseconds, overrides the config file'"`
	Debug    bool   `kong:"help='Enable debug logging'"`
}

func (c *ServerCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if c.WindowMs > 0 {
		cfg.Server.ChallengeWindowMS = c.WindowMs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !c.Debug {
		shared.ParseLevel(logger, cfg.Server.LogLevel)
	}

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	s := server.NewServer(addr, logger)
	roomService := server.NewRoomService(cfg, logger, quartz.NewReal(), s)
	s.SetRoomService(roomService)

	logger.Info("Starting camarero server",
		"addr", addr,
		"challengeWindowMs", cfg.Server.ChallengeWindowMS,
		"rooms", len(cfg.Rooms))

	ctx := shared.SetupSignalHandlerWithLogger(logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- s.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		return s.Stop()
	case err := <-serverErr:
		return err
	}
}
