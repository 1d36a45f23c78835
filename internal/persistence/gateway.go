// Package persistence mediates between the torrent engine core and an
// external record store. It is the only path by which the core writes to
// durable storage; every other component funnels through Gateway.
package persistence

import "github.com/murmur/torrentcore/internal/model"

// RecordPatch is a partial update of a TorrentRecord's mutable fields, used
// by UpdateRecord so callers don't have to re-supply the whole record.
type RecordPatch struct {
	Progress        *float64
	Status          *string
	Seeders         *int
	Leechers        *int
	DownloadedBytes *int64
	UploadedBytes   *int64
	Ratio           *float64
	LastActive      *bool // touch LastActive to time.Now() when true
	Files           *[]string
	MetainfoBlobBase64     *string
	MetainfoIsReconstructed *bool
	Paused          *bool
}

// Gateway is the record-level CRUD contract a persistence backend must
// satisfy. Implementations are expected to be internally synchronized; the
// core makes no assumption beyond serializability of individual calls.
type Gateway interface {
	// AddRecord is idempotent by infohash: duplicates return an error but do
	// not mutate existing state.
	AddRecord(record model.TorrentRecord) error

	// UpdateRecord applies patch to the mutable fields of the record keyed
	// by infoHash. Fields left nil in patch are unchanged.
	UpdateRecord(infoHash string, patch RecordPatch) error

	// GetRecord returns the record for infoHash, or a TorrentNotFound error.
	GetRecord(infoHash string) (model.TorrentRecord, error)

	// ListRecords returns every persisted record, used on startup restore.
	ListRecords() ([]model.TorrentRecord, error)

	// RemoveRecord deletes the record for infoHash. It tolerates absence.
	RemoveRecord(infoHash string) error

	// WriteSessionBlob persists the Session Runtime's opaque session-state
	// bytes (as produced by session.Runtime.SessionBlob: the applied
	// settings).
	WriteSessionBlob(data []byte) error

	// ReadSessionBlob returns the previously written session-state bytes, or
	// ErrSessionBlobNotFound (see yamlgateway.go) if none has ever been written.
	ReadSessionBlob() ([]byte, error)
}
