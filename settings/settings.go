// Package settings loads server settings and builds the process logger.
//
// Values come from, in increasing priority: built-in defaults, an optional
// YAML or JSON settings file, and CARDMATCH_* environment variables
// (CARDMATCH_SERVER_PORT, CARDMATCH_LEVELS_DIR, ...). Command line flags are
// applied on top by the caller.
package settings

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load
const EnvPrefix = "CARDMATCH"

// Settings holds all server settings
type Settings struct {
	Server   ServerSettings  `mapstructure:"server"`
	Levels   LevelSettings   `mapstructure:"levels"`
	Logging  LoggingSettings `mapstructure:"logging"`
	Sessions SessionSettings `mapstructure:"sessions"`
	Ngrok    NgrokSettings   `mapstructure:"ngrok"`
	MCP      MCPSettings     `mapstructure:"mcp"`
}

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LevelSettings struct {
	Dir string `mapstructure:"dir"`
	// Default is the level served when a session names none. Negative
	// picks the lowest playable level.
	Default int `mapstructure:"default"`
}

type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SessionSettings struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type NgrokSettings struct {
	Enabled   bool   `mapstructure:"enabled"`
	Authtoken string `mapstructure:"authtoken"`
	Domain    string `mapstructure:"domain"`
}

// MCPSettings configures the stdio MCP mode
type MCPSettings struct {
	// ExternalURL is checked before an internal API server is started
	ExternalURL string `mapstructure:"external_url"`
}

// Addr returns host:port
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("levels.dir", "levels")
	v.SetDefault("levels.default", -1)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("sessions.ttl", 24*time.Hour)
	v.SetDefault("sessions.cleanup_interval", time.Hour)
	v.SetDefault("ngrok.enabled", false)
	v.SetDefault("ngrok.authtoken", "")
	v.SetDefault("ngrok.domain", "")
	v.SetDefault("mcp.external_url", "http://localhost:8080")
}

// Load reads settings. An empty path skips the settings file.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings the server cannot start with
func (s *Settings) Validate() error {
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", s.Server.Port)
	}
	if s.Levels.Dir == "" {
		return fmt.Errorf("levels directory must be set")
	}
	if s.Sessions.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", s.Sessions.TTL)
	}
	if s.Sessions.CleanupInterval <= 0 {
		return fmt.Errorf("session cleanup interval must be positive, got %s", s.Sessions.CleanupInterval)
	}
	return nil
}
