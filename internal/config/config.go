// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Claim     ClaimConfig     `mapstructure:"claim"`
	Wager     WagerConfig     `mapstructure:"wager"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token        string `mapstructure:"token"`
	AnnounceChat int64  `mapstructure:"announce_chat"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// LedgerConfig holds ledger limits and persistence cadence.
type LedgerConfig struct {
	// MaxBalance caps every balance; additions saturate here.
	// Zero or negative means the platform maximum (math.MaxInt64).
	MaxBalance int64 `mapstructure:"max_balance"`
	// BadgeThreshold is the balance at which the high-roller badge is
	// granted (and below which it is revoked).
	BadgeThreshold int64 `mapstructure:"badge_threshold"`
	// SnapshotInterval is how often the in-memory ledger is persisted.
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval"`
}

// ClaimConfig holds the daily claim reward tiers.
type ClaimConfig struct {
	Daily   int64 `mapstructure:"daily"`
	Weekly  int64 `mapstructure:"weekly"`
	Monthly int64 `mapstructure:"monthly"`
	Yearly  int64 `mapstructure:"yearly"`
}

// WagerConfig holds the wager bounds.
type WagerConfig struct {
	Min int64 `mapstructure:"min"`
	Max int64 `mapstructure:"max"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, DATABASE_HOST, LEDGER_BADGE_THRESHOLD.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "lotterybot")
	v.SetDefault("database.name", "lotterybot")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Ledger defaults
	v.SetDefault("ledger.max_balance", 0) // 0 = platform maximum
	v.SetDefault("ledger.badge_threshold", 100000)
	v.SetDefault("ledger.snapshot_interval", "5m")

	// Claim reward defaults
	v.SetDefault("claim.daily", 100)
	v.SetDefault("claim.weekly", 100)
	v.SetDefault("claim.monthly", 500)
	v.SetDefault("claim.yearly", 10000)

	// Wager defaults
	v.SetDefault("wager.min", 1)
	v.SetDefault("wager.max", 1000000)
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	for _, id := range c.Whitelist.Chats {
		if id == chatID {
			return true
		}
	}
	return false
}
