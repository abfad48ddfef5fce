package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Rooms  []RoomConfig   `hcl:"room,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `hcl:"log_level,optional"`
	// ChallengeWindowMS is the default bell window for rooms created on
	// demand, in milliseconds.
	ChallengeWindowMS int `hcl:"challenge_window_ms,optional"`
}

// RoomConfig pre-declares a room with its own settings
type RoomConfig struct {
	Name              string `hcl:"name,label"`
	ChallengeWindowMS int    `hcl:"challenge_window_ms,optional"`
}

const defaultChallengeWindowMS = 4000

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:           "localhost",
			Port:              8080,
			LogLevel:          "info",
			ChallengeWindowMS: defaultChallengeWindowMS,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
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
	if config.Server.ChallengeWindowMS == 0 {
		config.Server.ChallengeWindowMS = defaultChallengeWindowMS
	}
	for i := range config.Rooms {
		if config.Rooms[i].ChallengeWindowMS == 0 {
			config.Rooms[i].ChallengeWindowMS = config.Server.ChallengeWindowMS
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.ChallengeWindowMS < 100 {
		return fmt.Errorf("challenge window too short: %dms", c.Server.ChallengeWindowMS)
	}
	for _, room := range c.Rooms {
		if room.Name == "" {
			return fmt.Errorf("room name must not be empty")
		}
		if room.ChallengeWindowMS < 100 {
			return fmt.Errorf("room %s: challenge window too short: %dms", room.Name, room.ChallengeWindowMS)
		}
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetRoomByName returns a pre-declared room configuration by name
func (c *ServerConfig) GetRoomByName(name string) *RoomConfig {
	for _, room := range c.Rooms {
		if room.Name == name {
			return &room
		}
	}
	return nil
}
