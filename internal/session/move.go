package session

import (
	"os"
	"path/filepath"

	"github.com/murmur/torrentcore/internal/model"
)

// Move relocates a torrent's on-disk data to newPath. anacrolix/torrent's
// file storage backend lays data out under <DataDir>/<torrent name>, so a
// move is a pause, a directory rename, and a resume rather than any
// primitive the client itself exposes.
func (r *Runtime) Move(infoHash, newPath string) error {
	r.mu.Lock()
	tracked, ok := r.tracked[infoHash]
	dataDir := r.settings.DownloadPath
	r.mu.Unlock()
	if !ok {
		return model.TorrentNotFound(infoHash)
	}

	tracked.t.DisallowDataDownload()
	tracked.t.DisallowDataUpload()
	defer func() {
		if !tracked.paused {
			tracked.t.AllowDataDownload()
			tracked.t.AllowDataUpload()
		}
	}()

	oldDir := filepath.Join(dataDir, tracked.t.Name())
	if _, err := os.Stat(oldDir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return model.PermissionDenied("statting existing torrent directory", err)
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return model.PermissionDenied("creating destination directory", err)
	}
	if err := os.Rename(oldDir, newPath); err != nil {
		return model.PermissionDenied("moving torrent data", err)
	}
	return nil
}
