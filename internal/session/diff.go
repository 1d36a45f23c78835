package session

import (
	"time"

	"github.com/murmur/torrentcore/internal/model"
)

// diffLoop is the background goroutine that synthesizes the alert queue:
// every diffCadence it snapshots each tracked torrent, compares it against
// the last-known state, and emits edge-triggered alerts for whatever
// changed. This is the one place anacrolix/torrent's poll-based API is
// adapted into the pop_alerts contract the rest of the core depends on.
func (r *Runtime) diffLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(diffCadence)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopDif:
			r.scanOnce()
			return
		case <-ticker.C:
			r.scanOnce()
		}
	}
}

func (r *Runtime) scanOnce() {
	r.mu.Lock()
	snapshot := make([]*trackedTorrent, 0, len(r.tracked))
	hashes := make([]string, 0, len(r.tracked))
	for h, tr := range r.tracked {
		snapshot = append(snapshot, tr)
		hashes = append(hashes, h)
	}
	r.mu.Unlock()

	for i, tr := range snapshot {
		infoHash := hashes[i]

		if !tr.announced {
			tr.announced = true
			status, _ := r.Snapshot(infoHash)
			r.emit(Alert{
				Kind:         AlertAdded,
				InfoHash:     infoHash,
				Name:         tr.t.Name(),
				Status:       status,
				MagnetURI:    tr.magnetURI,
				MetainfoBlob: tr.metainfoBlob,
			})
		}

		newState := classifyState(tr)
		if newState != tr.lastKind {
			old := tr.lastKind
			tr.lastKind = newState
			r.emit(Alert{Kind: AlertStateChanged, InfoHash: infoHash, OldState: old, NewState: newState})
		}

		if newState == model.StateFinished && !tr.finished {
			tr.finished = true
			status, _ := r.Snapshot(infoHash)
			r.emit(Alert{Kind: AlertTorrentFinished, InfoHash: infoHash, Status: status})
		}
	}
}

// classifyState maps anacrolix/torrent's poll-based fields onto the core's
// TorrentState enum. anacrolix/torrent does not distinguish Queued,
// CheckingResumeData, CheckingFiles, or Allocating from one another or from
// Downloading at the API level this Runtime uses, so those states are never
// produced by this classifier; only Paused, DownloadingMetadata,
// Downloading, Finished, and Seeding are reachable. This is a documented
// narrowing of spec.md's ten-state enum to what the underlying library
// actually distinguishes.
func classifyState(tr *trackedTorrent) model.TorrentState {
	if tr.paused {
		return model.StatePaused
	}

	t := tr.t
	info := t.Info()
	if info == nil {
		return model.StateDownloadingMetadata
	}

	total := info.TotalLength()
	completed := t.BytesCompleted()
	if total > 0 && completed >= total {
		if t.Stats().ActivePeers > 0 {
			return model.StateSeeding
		}
		return model.StateFinished
	}
	return model.StateDownloading
}

// PopAlerts drains every alert currently buffered, without blocking. It is
// the ONLY way the Event Pump observes engine state, per spec.md §4.3.
func (r *Runtime) PopAlerts() []Alert {
	var out []Alert
	for {
		select {
		case a := <-r.alerts:
			out = append(out, a)
		default:
			return out
		}
	}
}
