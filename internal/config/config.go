// Package config loads the reference CLI's configuration, generalizing the
// teacher's archived viper config layer (legacy/seeder/internal/config) from
// a fixed seeder config shape to the engine's own TorrentSettings plus the
// ambient logging/persistence settings a standalone binary needs that the
// core library itself has no opinion about.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/murmur/torrentcore/internal/model"
)

// LogConfig mirrors the teacher's LogConfig shape exactly.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PersistenceConfig is where the reference CLI keeps its records and
// session blob, via internal/persistence.YAMLGateway.
type PersistenceConfig struct {
	RecordsDir string `mapstructure:"records_dir"`
}

// Config is the complete configuration for the reference CLI and any other
// standalone binary embedding the engine.
type Config struct {
	Torrent     model.TorrentSettings `mapstructure:"torrent"`
	Log         LogConfig             `mapstructure:"log"`
	Persistence PersistenceConfig     `mapstructure:"persistence"`
}

// DefaultConfig mirrors the teacher's DefaultConfig pattern: sensible
// defaults for every field a caller didn't set.
func DefaultConfig() *Config {
	return &Config{
		Torrent: model.DefaultTorrentSettings(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Persistence: PersistenceConfig{
			RecordsDir: "./torrentcore-data",
		},
	}
}

// Validate checks the configuration is internally consistent, matching the
// teacher's Config.Validate shape.
func (c *Config) Validate() error {
	if err := c.Torrent.Validate(); err != nil {
		return fmt.Errorf("torrent settings: %w", err)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}

	if c.Persistence.RecordsDir == "" {
		return fmt.Errorf("persistence.records_dir cannot be empty")
	}
	return nil
}

// Load reads configuration from configPath (if non-empty) or the default
// search paths, layering file values over DefaultConfig via Viper's own
// defaults-then-unmarshal sequencing — same order the teacher's LoadConfig
// uses, but against a private Viper instance rather than viper's package
// singleton, so loading config twice in the same process (as this
// package's tests do) never cross-contaminates.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("torrentcore")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/torrentcore")
	}
	v.SetEnvPrefix("TORRENTCORE")
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("torrent.download_path", defaults.Torrent.DownloadPath)
	v.SetDefault("torrent.max_download_rate_kbps", defaults.Torrent.MaxDownloadRateKBps)
	v.SetDefault("torrent.max_upload_rate_kbps", defaults.Torrent.MaxUploadRateKBps)
	v.SetDefault("torrent.max_connections", defaults.Torrent.MaxConnections)
	v.SetDefault("torrent.max_seed_slots", defaults.Torrent.MaxSeedSlots)
	v.SetDefault("torrent.enable_dht", defaults.Torrent.EnableDHT)
	v.SetDefault("torrent.enable_pex", defaults.Torrent.EnablePEX)
	v.SetDefault("torrent.enable_lsd", defaults.Torrent.EnableLSD)
	v.SetDefault("torrent.enable_upnp", defaults.Torrent.EnableUPnP)
	v.SetDefault("torrent.enable_natpmp", defaults.Torrent.EnableNATPMP)
	v.SetDefault("torrent.sequential_download", defaults.Torrent.SequentialDownload)
	v.SetDefault("torrent.auto_managed", defaults.Torrent.AutoManaged)
	v.SetDefault("torrent.seed_when_complete", defaults.Torrent.SeedWhenComplete)
	v.SetDefault("torrent.share_ratio_limit", defaults.Torrent.ShareRatioLimit)
	v.SetDefault("torrent.seed_time_limit_minutes", defaults.Torrent.SeedTimeLimitMin)
	v.SetDefault("torrent.trackers", defaults.Torrent.Trackers)
	v.SetDefault("torrent.user_agent", defaults.Torrent.UserAgent)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("persistence.records_dir", defaults.Persistence.RecordsDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
