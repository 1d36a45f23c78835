package model

import "fmt"

// TorrentSettings is per-session and per-torrent configuration, validated at
// every component boundary that accepts it (Registry operations, Session
// Runtime initialization/hot-apply).
type TorrentSettings struct {
	DownloadPath string `yaml:"download_path" mapstructure:"download_path"`

	// Rate limits in kB/s; 0 or negative means unlimited.
	MaxDownloadRateKBps int `yaml:"max_download_rate_kbps" mapstructure:"max_download_rate_kbps"`
	MaxUploadRateKBps   int `yaml:"max_upload_rate_kbps" mapstructure:"max_upload_rate_kbps"`

	MaxConnections    int `yaml:"max_connections" mapstructure:"max_connections"`
	MaxSeedSlots      int `yaml:"max_seed_slots" mapstructure:"max_seed_slots"`

	EnableDHT    bool `yaml:"enable_dht" mapstructure:"enable_dht"`
	EnablePEX    bool `yaml:"enable_pex" mapstructure:"enable_pex"`
	EnableLSD    bool `yaml:"enable_lsd" mapstructure:"enable_lsd"`
	EnableUPnP   bool `yaml:"enable_upnp" mapstructure:"enable_upnp"`
	EnableNATPMP bool `yaml:"enable_natpmp" mapstructure:"enable_natpmp"`

	SequentialDownload bool `yaml:"sequential_download" mapstructure:"sequential_download"`
	AutoManaged        bool `yaml:"auto_managed" mapstructure:"auto_managed"`
	SeedWhenComplete   bool `yaml:"seed_when_complete" mapstructure:"seed_when_complete"`

	ShareRatioLimit float64 `yaml:"share_ratio_limit" mapstructure:"share_ratio_limit"`
	SeedTimeLimitMin int    `yaml:"seed_time_limit_minutes" mapstructure:"seed_time_limit_minutes"`

	Trackers  []string `yaml:"trackers" mapstructure:"trackers"`
	UserAgent string   `yaml:"user_agent" mapstructure:"user_agent"`
}

// DefaultTorrentSettings mirrors the teacher's DefaultConfig pattern: sensible
// defaults for every field a caller didn't set.
func DefaultTorrentSettings() TorrentSettings {
	return TorrentSettings{
		DownloadPath:        "./downloads",
		MaxDownloadRateKBps: 0,
		MaxUploadRateKBps:   0,
		MaxConnections:      200,
		MaxSeedSlots:        50,
		EnableDHT:           true,
		EnablePEX:           true,
		EnableLSD:           true,
		EnableUPnP:          true,
		EnableNATPMP:        true,
		SequentialDownload:  false,
		AutoManaged:         true,
		SeedWhenComplete:    true,
		ShareRatioLimit:     0,
		SeedTimeLimitMin:    0,
		UserAgent:           "torrentcore/1.0",
	}
}

// Validate checks the settings for internal consistency. It does not touch
// the filesystem or the registry — see identifier.SanitizeSavePath for that.
func (s TorrentSettings) Validate() error {
	if s.DownloadPath == "" {
		return PermissionDenied("download_path cannot be empty", nil)
	}
	if s.MaxConnections < 0 {
		return fmt.Errorf("max_connections cannot be negative")
	}
	if s.MaxSeedSlots < 0 {
		return fmt.Errorf("max_seed_slots cannot be negative")
	}
	if s.ShareRatioLimit < 0 {
		return fmt.Errorf("share_ratio_limit cannot be negative")
	}
	if s.SeedTimeLimitMin < 0 {
		return fmt.Errorf("seed_time_limit_minutes cannot be negative")
	}
	return nil
}

// DownloadRateBytesPerSec converts the kB/s boundary value to B/s for the
// underlying engine. 0 or negative means "no limit", represented as 0.
func (s TorrentSettings) DownloadRateBytesPerSec() int {
	if s.MaxDownloadRateKBps <= 0 {
		return 0
	}
	return s.MaxDownloadRateKBps * 1024
}

// UploadRateBytesPerSec is the upload analogue of DownloadRateBytesPerSec.
func (s TorrentSettings) UploadRateBytesPerSec() int {
	if s.MaxUploadRateKBps <= 0 {
		return 0
	}
	return s.MaxUploadRateKBps * 1024
}
