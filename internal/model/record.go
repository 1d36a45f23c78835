package model

import "time"

// TorrentRecord is the persisted form of a torrent: everything the
// Persistence Gateway needs to reconstruct a torrent on restart, plus a
// status snapshot for quick display without touching the Session Runtime.
type TorrentRecord struct {
	InfoHash string `yaml:"info_hash"`
	Name     string `yaml:"name"`
	SizeBytes int64 `yaml:"size_bytes"`

	DateAdded  time.Time `yaml:"date_added"`
	LastActive time.Time `yaml:"last_active"`

	SavePath string  `yaml:"save_path"`
	Progress float64 `yaml:"progress"`
	Status   string  `yaml:"status"`

	Seeders  int `yaml:"seeders"`
	Leechers int `yaml:"leechers"`

	DownloadedBytes int64   `yaml:"downloaded_bytes"`
	UploadedBytes   int64   `yaml:"uploaded_bytes"`
	Ratio           float64 `yaml:"ratio"`

	// MagnetURI is set for torrents added (or still only known) by magnet
	// link; it is the fallback reconstruction source on restore.
	MagnetURI string `yaml:"magnet_uri,omitempty"`

	// MetainfoBlobBase64 is the base64-encoded BEP-3 metainfo, set when the
	// record is first written for file/blob adds. It is not filled in later
	// for magnet adds once their metadata arrives, so those records restore
	// from MagnetURI. It is the preferred reconstruction source on restore.
	MetainfoBlobBase64 string `yaml:"metainfo_blob,omitempty"`

	// MetainfoIsReconstructed resolves spec.md §9's open question: true when
	// this blob was rebuilt from the live torrent_info rather than captured
	// from the original add call, since byte-equality with the original is
	// not guaranteed in that case.
	MetainfoIsReconstructed bool `yaml:"metainfo_reconstructed,omitempty"`

	Files []string `yaml:"files,omitempty"`

	// Paused preserves the paused/active flag across restarts.
	Paused bool `yaml:"paused"`
}

// SessionStats is derived purely from the Registry plus alert counters; it
// is never persisted.
type SessionStats struct {
	TotalTorrents       int `json:"total_torrents"`
	ActiveTorrents      int `json:"active_torrents"`
	SeedingTorrents     int `json:"seeding_torrents"`
	DownloadingTorrents int `json:"downloading_torrents"`
	PausedTorrents      int `json:"paused_torrents"`

	TotalDownloadedBytes int64 `json:"total_downloaded_bytes"`
	TotalUploadedBytes   int64 `json:"total_uploaded_bytes"`

	GlobalDownRate int64   `json:"global_down_rate"`
	GlobalUpRate   int64   `json:"global_up_rate"`
	TotalPeers     int     `json:"total_peers"`
	GlobalRatio    float64 `json:"global_ratio"`
	DHTNodeCount   int     `json:"dht_node_count"`
}

// ComputeGlobalRatio implements spec.md §8 invariant 6: ratio is
// uploaded/downloaded when downloaded > 0, else 0.
func ComputeGlobalRatio(uploaded, downloaded int64) float64 {
	if downloaded <= 0 {
		return 0
	}
	return float64(uploaded) / float64(downloaded)
}
