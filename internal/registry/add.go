package registry

import (
	"github.com/murmur/torrentcore/internal/identifier"
	"github.com/murmur/torrentcore/internal/model"
	"github.com/murmur/torrentcore/internal/session"
)

// AddMagnetParams carries the accept-time arguments for add_magnet.
type AddMagnetParams struct {
	MagnetURI string
	SavePath  string
	Settings  model.TorrentSettings
}

// AddMagnet validates uri, checks uniqueness against both live and
// in-flight entries, resolves the save path, and dispatches to the Session
// Runtime. It returns the infohash as soon as the engine has accepted the
// params — the registry entry itself materializes later, when the Event
// Pump processes the resulting Added alert.
func (r *Registry) AddMagnet(params AddMagnetParams) (string, error) {
	parsed, err := identifier.ValidateMagnet(params.MagnetURI)
	if err != nil {
		return "", err
	}

	savePath, err := r.resolveSavePath(params.SavePath, parsed.DisplayName)
	if err != nil {
		return "", err
	}

	if err := r.reserve(parsed.InfoHash); err != nil {
		return "", err
	}

	infoHash, err := r.runtime.AsyncAdd(session.AddParams{
		MagnetURI: params.MagnetURI,
		SavePath:  savePath,
	})
	if err != nil {
		r.release(parsed.InfoHash)
		return "", err
	}

	return infoHash, nil
}

// AddMetainfoParams carries the accept-time arguments for add_metainfo.
type AddMetainfoParams struct {
	Blob     []byte
	SavePath string
	Settings model.TorrentSettings
}

// AddMetainfo parses blob, enforces the free-disk-space invariant against
// its known total size, checks uniqueness, and dispatches to the Session
// Runtime.
func (r *Registry) AddMetainfo(params AddMetainfoParams) (string, error) {
	parsed, err := identifier.ParseMetainfo(params.Blob)
	if err != nil {
		return "", err
	}

	savePath, err := r.resolveSavePath(params.SavePath, parsed.Name)
	if err != nil {
		return "", err
	}

	free, err := availableBytes(savePath)
	if err == nil && free < parsed.TotalSize {
		return "", model.InsufficientSpace(parsed.TotalSize, free)
	}

	if err := r.reserve(parsed.InfoHash); err != nil {
		return "", err
	}

	infoHash, err := r.runtime.AsyncAdd(session.AddParams{
		MetainfoBytes: parsed.Raw(),
		SavePath:      savePath,
	})
	if err != nil {
		r.release(parsed.InfoHash)
		return "", err
	}

	return infoHash, nil
}

// resolveSavePath sanitizes the explicit save path if given, else composes
// one from the sanitized displayName, resolved against the process working
// directory. The configured download path is not consulted.
func (r *Registry) resolveSavePath(explicit, displayName string) (string, error) {
	if explicit != "" {
		return identifier.SanitizeSavePath(explicit)
	}
	name := identifier.SanitizeTorrentName(displayName)
	return identifier.SanitizeSavePath(name)
}

// reserve checks uniqueness against both live and in-flight entries and, if
// free, marks infoHash pending. It is the enforcement point for spec.md
// invariant 3 (duplicate adds fail without side effects).
func (r *Registry) reserve(infoHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[infoHash]; ok {
		return model.DuplicateTorrent(infoHash)
	}
	if _, ok := r.pending[infoHash]; ok {
		return model.DuplicateTorrent(infoHash)
	}
	r.pending[infoHash] = struct{}{}
	return nil
}

// release undoes a reserve after a failed dispatch to the Session Runtime.
func (r *Registry) release(infoHash string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, infoHash)
}
