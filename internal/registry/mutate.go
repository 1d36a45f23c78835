package registry

import (
	"github.com/murmur/torrentcore/internal/identifier"
	"github.com/murmur/torrentcore/internal/model"
)

// Remove drops infoHash from the Session Runtime and, whether or not the
// engine knew about it, clears any registry bookkeeping. The Persistence
// Gateway's record is left for the Event Pump to delete once it observes
// the resulting Removed alert, keeping all durable writes on that single
// path.
func (r *Registry) Remove(infoHash string, deleteFiles bool) error {
	if !r.Has(infoHash) {
		return model.TorrentNotFound(infoHash)
	}
	err := r.runtime.Remove(infoHash, deleteFiles)
	r.Erase(infoHash)
	return err
}

// Pause gates data transfer for infoHash via the Session Runtime.
func (r *Registry) Pause(infoHash string) error {
	if !r.Has(infoHash) {
		return model.TorrentNotFound(infoHash)
	}
	return r.runtime.Pause(infoHash)
}

// Resume reverses Pause.
func (r *Registry) Resume(infoHash string) error {
	if !r.Has(infoHash) {
		return model.TorrentNotFound(infoHash)
	}
	return r.runtime.Resume(infoHash)
}

// Recheck forces on-disk piece re-verification for infoHash.
func (r *Registry) Recheck(infoHash string) error {
	if !r.Has(infoHash) {
		return model.TorrentNotFound(infoHash)
	}
	return r.runtime.Recheck(infoHash)
}

// SetFilePriorities clamps and applies per-file priorities for infoHash.
func (r *Registry) SetFilePriorities(infoHash string, priorities []model.FilePriority) error {
	if !r.Has(infoHash) {
		return model.TorrentNotFound(infoHash)
	}
	return r.runtime.SetFilePriorities(infoHash, priorities)
}

// Move relocates infoHash's on-disk data to newPath, after sanitizing it
// the same way an add's save path is sanitized.
func (r *Registry) Move(infoHash, newPath string) error {
	if !r.Has(infoHash) {
		return model.TorrentNotFound(infoHash)
	}
	abs, err := identifier.SanitizeSavePath(newPath)
	if err != nil {
		return err
	}
	return r.runtime.Move(infoHash, abs)
}
