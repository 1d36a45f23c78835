package session

import (
	anatorrent "github.com/anacrolix/torrent"

	"github.com/murmur/torrentcore/internal/model"
)

// Snapshot returns the full, freshly-read status for infoHash, used by the
// stats aggregator to refresh the Registry's cached view at its 1s cadence
// (TorrentStatus is "refreshed on alert delivery and at the stats cadence").
func (r *Runtime) Snapshot(infoHash string) (model.TorrentStatus, bool) {
	r.mu.Lock()
	tr, ok := r.tracked[infoHash]
	r.mu.Unlock()
	if !ok {
		return model.TorrentStatus{}, false
	}

	t := tr.t
	stats := t.Stats()

	status := model.TorrentStatus{
		InfoHash:  infoHash,
		Name:      t.Name(),
		State:     tr.lastKind,
		DownRate:  stats.BytesReadUsefulData.Int64(),
		UpRate:    stats.BytesWrittenData.Int64(),
		PeerCount: stats.ActivePeers,
		Paused:    tr.paused,
		Finished:  tr.finished,
		Seeding:   tr.lastKind == model.StateSeeding,
		AddedAt:   tr.addedAt,
		SavePath:  tr.savePath,
	}

	if info := t.Info(); info != nil {
		status.TotalWantedBytes = info.TotalLength()
		status.DownloadedBytes = t.BytesCompleted()
		if status.TotalWantedBytes > 0 {
			status.Progress = float64(status.DownloadedBytes) / float64(status.TotalWantedBytes)
		}

		files := t.Files()
		status.Files = make([]model.FileStatus, 0, len(files))
		for _, f := range files {
			status.Files = append(status.Files, model.FileStatus{
				Path:     f.Path(),
				Size:     f.Length(),
				Progress: fileProgress(f),
			})
		}
	}

	status.UploadedBytes = stats.BytesWrittenData.Int64()
	status.Ratio = model.ComputeGlobalRatio(status.UploadedBytes, status.DownloadedBytes)

	return status, true
}

// fileProgress reports how much of a single file has completed, using the
// same bytes-completed/length ratio the Torrent type itself exposes per
// piece, applied here per file.
func fileProgress(f *anatorrent.File) float64 {
	length := f.Length()
	if length <= 0 {
		return 0
	}
	return float64(f.BytesCompleted()) / float64(length)
}
