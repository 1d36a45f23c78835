package model

import "time"

// TorrentState is the state machine a torrent moves through, driven
// exclusively by alerts (see internal/pump). It follows the teacher's
// String()-method-on-int-enum idiom (engine.go's EngineState/TorrentState).
type TorrentState int

const (
	StateQueued TorrentState = iota
	StateCheckingResumeData
	StateCheckingFiles
	StateDownloadingMetadata
	StateDownloading
	StateFinished
	StateSeeding
	StateAllocating
	StatePaused
	StateError
)

// String returns the stable human-readable form of the state.
func (s TorrentState) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateCheckingResumeData:
		return "checking_resume_data"
	case StateCheckingFiles:
		return "checking_files"
	case StateDownloadingMetadata:
		return "downloading_metadata"
	case StateDownloading:
		return "downloading"
	case StateFinished:
		return "finished"
	case StateSeeding:
		return "seeding"
	case StateAllocating:
		return "allocating"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// FilePriority is clamped to 0..7 by the Registry; 0 means skip, higher is
// more urgent, matching spec.md's invariant 5.
type FilePriority int

const (
	PriorityMin FilePriority = 0
	PriorityMax FilePriority = 7
)

// Clamp returns p bound to [PriorityMin, PriorityMax].
func (p FilePriority) Clamp() FilePriority {
	if p < PriorityMin {
		return PriorityMin
	}
	if p > PriorityMax {
		return PriorityMax
	}
	return p
}

// FileStatus is the per-file slice of a TorrentStatus.
type FileStatus struct {
	Path     string       `json:"path"`
	Size     int64        `json:"size"`
	Progress float64      `json:"progress"`
	Priority FilePriority `json:"priority"`
}

// TorrentStatus is the cached view the Registry maintains per live torrent.
// It is refreshed on alert delivery and at the stats cadence.
type TorrentStatus struct {
	InfoHash string       `json:"info_hash"`
	Name     string       `json:"name"`
	State    TorrentState `json:"state"`

	TotalWantedBytes int64 `json:"total_wanted_bytes"`
	DownloadedBytes  int64 `json:"downloaded_bytes"`
	UploadedBytes    int64 `json:"uploaded_bytes"`

	Progress float64 `json:"progress"`
	DownRate int64   `json:"down_rate"`
	UpRate   int64   `json:"up_rate"`

	Seeders   int     `json:"seeders"`
	Leechers  int     `json:"leechers"`
	PeerCount int     `json:"peer_count"`
	Ratio     float64 `json:"ratio"`

	Paused   bool `json:"paused"`
	Finished bool `json:"finished"`
	Seeding  bool `json:"seeding"`

	SavePath string `json:"save_path"`
	Error    string `json:"error"`

	Files []FileStatus `json:"files"`

	AddedAt     time.Time `json:"added_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Clone returns a deep-enough copy safe to hand to a reader without sharing
// the Files backing array with the Registry's cached copy.
func (s TorrentStatus) Clone() TorrentStatus {
	out := s
	if len(s.Files) > 0 {
		out.Files = make([]FileStatus, len(s.Files))
		copy(out.Files, s.Files)
	}
	return out
}
