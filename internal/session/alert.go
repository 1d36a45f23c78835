// Package session owns the underlying peer-protocol session: it applies
// settings, sources alerts, and posts stats requests. Since anacrolix/torrent
// exposes a level-triggered, poll/callback API rather than a pop-style alert
// queue, the Runtime synthesizes the alert queue the rest of the core
// depends on by diffing successive snapshots of engine state on a fixed
// cadence and emitting edge-triggered alerts from the diff.
package session

import (
	"github.com/murmur/torrentcore/internal/model"
)

// AlertKind is a sealed enum over the alert categories the core cares about;
// unknowns funnel to AlertUnknown rather than growing an open hierarchy.
type AlertKind int

const (
	AlertAdded AlertKind = iota
	AlertRemoved
	AlertStateChanged
	AlertTorrentFinished
	AlertTrackerError
	AlertTrackerWarning
	AlertSessionStats
	AlertUnknown
)

// String returns the stable human-readable form of the kind.
func (k AlertKind) String() string {
	switch k {
	case AlertAdded:
		return "added"
	case AlertRemoved:
		return "removed"
	case AlertStateChanged:
		return "state_changed"
	case AlertTorrentFinished:
		return "torrent_finished"
	case AlertTrackerError:
		return "tracker_error"
	case AlertTrackerWarning:
		return "tracker_warning"
	case AlertSessionStats:
		return "session_stats"
	default:
		return "unknown"
	}
}

// Alert is the single type the Event Pump classifies against. It carries a
// superset of fields; only the ones relevant to Kind are populated.
type Alert struct {
	Kind AlertKind

	InfoHash string
	Name     string

	OldState model.TorrentState
	NewState model.TorrentState
	Status   model.TorrentStatus

	Tracker string
	Message string

	Stats model.SessionStats

	// MagnetURI and MetainfoBlob are populated only on AlertAdded, so the
	// Event Pump can write a reconstructible record without reaching back
	// into the Session Runtime.
	MagnetURI    string
	MetainfoBlob []byte
}
