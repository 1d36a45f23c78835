package pump

import (
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/model"
	"github.com/murmur/torrentcore/internal/session"
)

// Restore implements spec.md §4.5's startup restore path: it applies any
// persisted session-state blob before a single torrent is added, then
// reconstructs and dispatches every persisted record, preferring the
// embedded metainfo blob over the magnet URI. It is invoked once by the
// engine facade before the pump/aggregator goroutines start.
func (p *Pump) Restore() error {
	if err := p.restoreSessionBlob(); err != nil {
		p.logger.Warn("applying persisted session blob failed", zap.Error(err))
	}

	records, err := p.gateway.ListRecords()
	if err != nil {
		return err
	}

	for _, rec := range records {
		p.restoreRecord(rec)
	}
	return nil
}

func (p *Pump) restoreSessionBlob() error {
	blob, err := p.gateway.ReadSessionBlob()
	if err != nil {
		return nil // ErrSessionBlobNotFound or a transient read failure: nothing to apply.
	}
	return p.runtime.ApplySessionBlob(blob)
}

func (p *Pump) restoreRecord(rec model.TorrentRecord) {
	params := session.AddParams{SavePath: rec.SavePath}

	switch {
	case rec.MetainfoBlobBase64 != "":
		blob, err := base64.StdEncoding.DecodeString(rec.MetainfoBlobBase64)
		if err != nil {
			p.logger.Warn("decoding persisted metainfo blob failed, skipping restore",
				zap.String("info_hash", rec.InfoHash), zap.Error(err))
			return
		}
		params.MetainfoBytes = blob

	case rec.MagnetURI != "":
		params.MagnetURI = rec.MagnetURI

	default:
		p.logger.Warn("persisted record has neither metainfo nor magnet uri, skipping restore",
			zap.String("info_hash", rec.InfoHash))
		return
	}

	infoHash, err := p.runtime.AsyncAdd(params)
	if err != nil {
		p.logger.Warn("restoring persisted torrent failed",
			zap.String("info_hash", rec.InfoHash), zap.Error(err))
		return
	}

	if rec.Paused {
		if err := p.runtime.Pause(infoHash); err != nil {
			p.logger.Warn("re-applying paused state on restore failed",
				zap.String("info_hash", infoHash), zap.Error(err))
		}
	}
}
