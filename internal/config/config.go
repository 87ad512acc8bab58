package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the Bancho server.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Domain is used in chat URLs and client switch instructions.
	Domain string `yaml:"domain"`

	// Chat
	CommandPrefix string `yaml:"command_prefix"`
	BotName       string `yaml:"bot_name"`

	// Menu icon shown on the client main menu.
	MenuIconURL    string `yaml:"menu_icon_url"`
	MenuOnclickURL string `yaml:"menu_onclick_url"`

	// DisallowedNames are rejected at registration and flagged at login.
	DisallowedNames []string `yaml:"disallowed_names"`

	// BcryptCacheSize bounds the password verify cache.
	BcryptCacheSize int `yaml:"bcrypt_cache_size"`

	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	// Upstream changelog used to validate client builds.
	ChangelogURL     string `yaml:"changelog_url"`
	EnforceChangelog bool   `yaml:"enforce_changelog"`

	// DiscordAuditWebhook receives moderation audit lines (empty = off).
	DiscordAuditWebhook string `yaml:"discord_audit_webhook"`

	// External collaborators
	GeolocURL        string `yaml:"geoloc_url"`
	BeatmapAPIURL    string `yaml:"beatmap_api_url"`
	PPCalculatorPath string `yaml:"pp_calculator_path"`
	MapsDir          string `yaml:"maps_dir"`

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// TimeoutConfig holds the session lifecycle knobs, in seconds.
type TimeoutConfig struct {
	// GhostDisconnect logs out sessions idle longer than this.
	GhostDisconnect int `yaml:"ghost_disconnect"`
	// MinLogoutAge ignores logout packets within this window after login;
	// the client fires one spuriously while restarting.
	MinLogoutAge int `yaml:"min_logout_age"`
	// LoginReplacement rejects a second login while the first session has
	// received traffic within this window.
	LoginReplacement int `yaml:"login_replacement"`
}

// Default returns a Server config with sensible defaults.
func Default() Server {
	return Server{
		BindAddress:      "0.0.0.0",
		Port:             8080,
		Domain:           "gosu.local",
		CommandPrefix:    "!",
		BotName:          "BanchoBot",
		BcryptCacheSize:  2048,
		LogLevel:         "info",
		EnforceChangelog: false,
		GeolocURL:        "http://ip-api.com",
		BeatmapAPIURL:    "http://localhost:8081",
		PPCalculatorPath: "./tools/ppcalc",
		MapsDir:          ".data/osu",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "gosu",
			Password: "gosu",
			DBName:   "gosu",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Timeouts: TimeoutConfig{
			GhostDisconnect:  300,
			MinLogoutAge:     1,
			LoginReplacement: 10,
		},
	}
}

// Load loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Server, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
