package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper
// Priority order: Environment variables > Config file > Defaults
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	// Set config file details
	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/kadencja")
	}

	// Enable environment variable binding
	v.SetEnvPrefix("KADENCJA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// These allow both KADENCJA_SERVER_PORT and PORT to work
	bindings := map[string]string{
		"server.port":           "PORT",
		"server.host":           "HOST",
		"server.loglevel":       "LOG_LEVEL",
		"server.logformat":      "LOG_FORMAT",
		"server.logfile":        "LOG_FILE",
		"server.ratelimit":      "RATE_LIMIT",
		"server.ratelimitburst": "RATE_LIMIT_BURST",
		"server.maxrequestsize": "MAX_REQUEST_SIZE",
		"server.maxmessagesize": "MAX_MESSAGE_SIZE",
		"server.allowedorigins": "ALLOWED_ORIGINS",
		"game.boardfile":        "BOARD_FILE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "KADENCJA_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	setDefaults(v, DefaultConfig())

	// Try to read config file (it's optional)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *ServerConfig) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.readtimeout", d.Server.ReadTimeout)
	v.SetDefault("server.writetimeout", d.Server.WriteTimeout)
	v.SetDefault("server.idletimeout", d.Server.IdleTimeout)
	v.SetDefault("server.shutdowntimeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.ratelimit", d.Server.RateLimit)
	v.SetDefault("server.ratelimitburst", d.Server.RateLimitBurst)
	v.SetDefault("server.maxrequestsize", d.Server.MaxRequestSize)
	v.SetDefault("server.maxmessagesize", d.Server.MaxMessageSize)
	v.SetDefault("server.allowedorigins", []string{})
	v.SetDefault("server.loglevel", d.Server.LogLevel)
	v.SetDefault("server.logformat", d.Server.LogFormat)
	v.SetDefault("server.logfile", d.Server.LogFile)

	v.SetDefault("game.maxplayersperroom", d.Game.MaxPlayersPerRoom)
	v.SetDefault("game.roomcodelength", d.Game.RoomCodeLength)
	v.SetDefault("game.roomtimeout", d.Game.RoomTimeout)
	v.SetDefault("game.sweepinterval", d.Game.SweepInterval)
	v.SetDefault("game.boardfile", d.Game.BoardFile)
}
