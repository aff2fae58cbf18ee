package config

import (
	"fmt"
	"time"
)

// This file defines the configuration structures used by viper_config.go
// The actual loading is handled by viper in viper_config.go

// ServerConfig represents the server configuration
type ServerConfig struct {
	Server ServerSettings `yaml:"server"`
	Game   GameSettings   `yaml:"game"`
}

// ServerSettings contains transport and process settings
type ServerSettings struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"` // 0 for long-lived streams
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// Rate limiting (using golang.org/x/time/rate)
	RateLimit      float64 `yaml:"rateLimit"`      // requests per second
	RateLimitBurst int     `yaml:"rateLimitBurst"` // burst size

	// Request limits
	MaxRequestSize int64    `yaml:"maxRequestSize"`
	MaxMessageSize int64    `yaml:"maxMessageSize"` // single websocket frame
	AllowedOrigins []string `yaml:"allowedOrigins"` // empty allows same-host only

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
	LogFile   string `yaml:"logFile"`
}

// GameSettings contains room and board settings
type GameSettings struct {
	MaxPlayersPerRoom int           `yaml:"maxPlayersPerRoom"`
	RoomCodeLength    int           `yaml:"roomCodeLength"`
	RoomTimeout       time.Duration `yaml:"roomTimeout"`
	SweepInterval     time.Duration `yaml:"sweepInterval"`
	BoardFile         string        `yaml:"boardFile"` // empty uses the embedded board
}

// DefaultConfig returns a default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Port:            "", // Must be set via env
			Host:            "", // Must be set via env
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // 0 for SSE support
			IdleTimeout:     0,
			ShutdownTimeout: 30 * time.Second,

			RateLimit:      10,
			RateLimitBurst: 20,

			MaxRequestSize: 1048576, // 1MB
			MaxMessageSize: 4096,

			LogLevel:  "info",
			LogFormat: "console",
		},
		Game: GameSettings{
			MaxPlayersPerRoom: 6,
			RoomCodeLength:    6,
			RoomTimeout:       24 * time.Hour,
			SweepInterval:     time.Minute,
		},
	}
}

// Validate checks if the configuration is valid
func (c *ServerConfig) Validate() error {
	// Required fields
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}

	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("rateLimit must be positive")
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("rateLimitBurst must be at least 1")
	}
	if c.Server.MaxRequestSize < 1 {
		return fmt.Errorf("maxRequestSize must be at least 1")
	}
	if c.Server.MaxMessageSize < 64 {
		return fmt.Errorf("maxMessageSize must be at least 64")
	}
	switch c.Server.LogFormat {
	case "console", "text", "json":
	default:
		return fmt.Errorf("logFormat must be console or json, got %q", c.Server.LogFormat)
	}

	if c.Game.MaxPlayersPerRoom < 2 {
		return fmt.Errorf("maxPlayersPerRoom must be at least 2")
	}
	if c.Game.RoomCodeLength < 3 {
		return fmt.Errorf("roomCodeLength must be at least 3")
	}
	if c.Game.RoomTimeout <= 0 {
		return fmt.Errorf("roomTimeout must be positive")
	}
	if c.Game.SweepInterval <= 0 {
		return fmt.Errorf("sweepInterval must be positive")
	}

	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
