package session

import (
	"bytes"
	"time"

	anatorrent "github.com/anacrolix/torrent"
	at "github.com/anacrolix/torrent/metainfo"
	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/model"
)

// AddParams is the Runtime's view of an add request: exactly one of
// MagnetURI or MetainfoBytes is set.
type AddParams struct {
	MagnetURI     string
	MetainfoBytes []byte
	SavePath      string
}

// AsyncAdd enqueues a torrent from either a magnet URI or a parsed metainfo
// blob. It resolves the infohash synchronously (spec.md invariant 2: a
// successful add returns only after the engine has accepted the params),
// while the torrent's registry entry materializes later, asynchronously,
// once the snapshot-diff goroutine observes it and emits an Added alert.
func (r *Runtime) AsyncAdd(params AddParams) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return "", model.SessionError("runtime not initialized", nil)
	}

	var t *anatorrent.Torrent
	var infoHash string

	switch {
	case params.MetainfoBytes != nil:
		mi, err := at.Load(bytes.NewReader(params.MetainfoBytes))
		if err != nil {
			return "", model.InvalidTorrentFile("decoding metainfo for add", err)
		}
		infoHash = mi.HashInfoBytes().HexString()
		added, err := r.client.AddTorrent(mi)
		if err != nil {
			return "", model.SessionError("adding metainfo torrent", err)
		}
		t = added

	case params.MagnetURI != "":
		spec, err := anatorrent.TorrentSpecFromMagnetUri(params.MagnetURI)
		if err != nil {
			return "", model.InvalidMagnetLink("parsing magnet for add", err)
		}
		infoHash = spec.InfoHash.HexString()
		added, _, err := r.client.AddTorrentSpec(spec)
		if err != nil {
			return "", model.SessionError("adding magnet torrent", err)
		}
		t = added

	default:
		return "", model.SessionError("add params must carry a magnet uri or metainfo bytes", nil)
	}

	if params.SavePath != "" {
		t.DownloadAll()
	}

	r.tracked[infoHash] = &trackedTorrent{
		t:            t,
		addedAt:      time.Now(),
		lastKind:     model.StateQueued,
		magnetURI:    params.MagnetURI,
		metainfoBlob: params.MetainfoBytes,
		savePath:     params.SavePath,
	}

	return infoHash, nil
}

// Remove drops a handle. anacrolix/torrent tears a torrent down
// synchronously within Drop, so the Removed alert is emitted immediately
// rather than waited for on the next diff tick.
func (r *Runtime) Remove(infoHash string, deleteFiles bool) error {
	r.mu.Lock()
	tracked, ok := r.tracked[infoHash]
	if ok {
		delete(r.tracked, infoHash)
	}
	r.mu.Unlock()

	if !ok {
		return model.TorrentNotFound(infoHash)
	}

	tracked.t.Drop()
	if deleteFiles {
		r.logger.Warn("delete_files on remove is not implemented by the underlying storage backend",
			zap.String("info_hash", infoHash))
	}

	r.emit(Alert{Kind: AlertRemoved, InfoHash: infoHash})
	return nil
}

// Pause gates data transfer for the torrent. anacrolix/torrent has no
// native pause primitive; DisallowDataDownload/Upload is the library's own
// substitute and is the one this Runtime uses.
func (r *Runtime) Pause(infoHash string) error {
	r.mu.Lock()
	tracked, ok := r.tracked[infoHash]
	r.mu.Unlock()
	if !ok {
		return model.TorrentNotFound(infoHash)
	}

	tracked.t.DisallowDataDownload()
	tracked.t.DisallowDataUpload()
	tracked.paused = true
	return nil
}

// Resume reverses Pause.
func (r *Runtime) Resume(infoHash string) error {
	r.mu.Lock()
	tracked, ok := r.tracked[infoHash]
	r.mu.Unlock()
	if !ok {
		return model.TorrentNotFound(infoHash)
	}

	tracked.t.AllowDataDownload()
	tracked.t.AllowDataUpload()
	tracked.paused = false
	return nil
}

// Recheck forces re-verification of on-disk pieces against their hashes.
func (r *Runtime) Recheck(infoHash string) error {
	r.mu.Lock()
	tracked, ok := r.tracked[infoHash]
	r.mu.Unlock()
	if !ok {
		return model.TorrentNotFound(infoHash)
	}
	tracked.t.VerifyData()
	return nil
}

// SetFilePriorities clamps each priority to [0,7] and applies it to the
// matching file index, per spec.md invariant 5.
func (r *Runtime) SetFilePriorities(infoHash string, priorities []model.FilePriority) error {
	r.mu.Lock()
	tracked, ok := r.tracked[infoHash]
	r.mu.Unlock()
	if !ok {
		return model.TorrentNotFound(infoHash)
	}

	info := tracked.t.Info()
	if info == nil {
		return model.SessionError("metainfo not yet available for file priorities", nil)
	}

	files := tracked.t.Files()
	for i, f := range files {
		if i >= len(priorities) {
			break
		}
		f.SetPriority(toPiecePriority(priorities[i].Clamp()))
	}
	return nil
}

// toPiecePriority maps the core's 0..7 priority scale onto
// anacrolix/torrent's five-level PiecePriority enum: 0 skips the file
// entirely, 1..3 are Normal, 4..5 are High, 6..7 are Now.
func toPiecePriority(p model.FilePriority) anatorrent.PiecePriority {
	switch {
	case p <= 0:
		return anatorrent.PiecePriorityNone
	case p <= 3:
		return anatorrent.PiecePriorityNormal
	case p <= 5:
		return anatorrent.PiecePriorityHigh
	default:
		return anatorrent.PiecePriorityNow
	}
}

func (r *Runtime) emit(a Alert) {
	select {
	case r.alerts <- a:
	default:
		r.logger.Warn("alert channel full, dropping alert", zap.String("kind", a.Kind.String()))
	}
}
