package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/murmur/torrentcore/internal/model"
)

// ErrSessionBlobNotFound is returned by ReadSessionBlob when no session
// state has ever been persisted, matching the sentinel-error idiom the
// teacher uses for its own Engine errors (ErrEngineNotStarted, ErrTorrentExists).
var ErrSessionBlobNotFound = errors.New("no session blob persisted yet")

// YAMLGateway is the shipped Gateway implementation: one YAML document per
// torrent record under recordsDir, and a single opaque session.blob file
// under baseDir. Writes use the teacher's atomic temp-file-then-rename
// technique (pkg/storage/metadata.go's SaveYAMLFile) so a crash mid-write
// never corrupts a record.
type YAMLGateway struct {
	baseDir    string
	recordsDir string
	blobPath   string

	mu      sync.RWMutex
	records map[string]model.TorrentRecord
}

// NewYAMLGateway creates a gateway rooted at baseDir, creating the records
// subdirectory if necessary, and loads any records already on disk.
func NewYAMLGateway(baseDir string) (*YAMLGateway, error) {
	recordsDir := filepath.Join(baseDir, "records")
	if err := os.MkdirAll(recordsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating records directory %q: %w", recordsDir, err)
	}

	g := &YAMLGateway{
		baseDir:    baseDir,
		recordsDir: recordsDir,
		blobPath:   filepath.Join(baseDir, "session.blob"),
		records:    make(map[string]model.TorrentRecord),
	}

	entries, err := os.ReadDir(recordsDir)
	if err != nil {
		return nil, fmt.Errorf("reading records directory %q: %w", recordsDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(recordsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading record %q: %w", entry.Name(), err)
		}
		var rec model.TorrentRecord
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("parsing record %q: %w", entry.Name(), err)
		}
		g.records[rec.InfoHash] = rec
	}

	return g, nil
}

func (g *YAMLGateway) recordPath(infoHash string) string {
	return filepath.Join(g.recordsDir, infoHash+".yaml")
}

// writeYAMLAtomic marshals v and writes it to path via a temp file in the
// same directory followed by an atomic rename, preventing partial writes
// from corrupting the file on crash.
func writeYAMLAtomic(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %q: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file for %q: %w", path, err)
	}
	tmpPath := tmp.Name()

	writeErr := func() error {
		if _, err := tmp.Write(data); err != nil {
			return err
		}
		if err := tmp.Sync(); err != nil {
			return err
		}
		return tmp.Close()
	}()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file for %q: %w", path, writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file to %q: %w", path, err)
	}
	return nil
}

func (g *YAMLGateway) AddRecord(record model.TorrentRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.records[record.InfoHash]; exists {
		return model.DuplicateTorrent(record.InfoHash)
	}
	if record.DateAdded.IsZero() {
		record.DateAdded = time.Now()
	}
	record.LastActive = time.Now()

	if err := writeYAMLAtomic(g.recordPath(record.InfoHash), record); err != nil {
		return model.DiskError("writing torrent record", err)
	}
	g.records[record.InfoHash] = record
	return nil
}

func (g *YAMLGateway) UpdateRecord(infoHash string, patch RecordPatch) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, exists := g.records[infoHash]
	if !exists {
		return model.TorrentNotFound(infoHash)
	}

	if patch.Progress != nil {
		rec.Progress = *patch.Progress
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.Seeders != nil {
		rec.Seeders = *patch.Seeders
	}
	if patch.Leechers != nil {
		rec.Leechers = *patch.Leechers
	}
	if patch.DownloadedBytes != nil {
		rec.DownloadedBytes = *patch.DownloadedBytes
	}
	if patch.UploadedBytes != nil {
		rec.UploadedBytes = *patch.UploadedBytes
	}
	if patch.Ratio != nil {
		rec.Ratio = *patch.Ratio
	}
	if patch.Files != nil {
		rec.Files = *patch.Files
	}
	if patch.MetainfoBlobBase64 != nil {
		rec.MetainfoBlobBase64 = *patch.MetainfoBlobBase64
	}
	if patch.MetainfoIsReconstructed != nil {
		rec.MetainfoIsReconstructed = *patch.MetainfoIsReconstructed
	}
	if patch.Paused != nil {
		rec.Paused = *patch.Paused
	}
	if patch.LastActive != nil && *patch.LastActive {
		rec.LastActive = time.Now()
	}

	if err := writeYAMLAtomic(g.recordPath(infoHash), rec); err != nil {
		return model.DiskError("updating torrent record", err)
	}
	g.records[infoHash] = rec
	return nil
}

func (g *YAMLGateway) GetRecord(infoHash string) (model.TorrentRecord, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rec, exists := g.records[infoHash]
	if !exists {
		return model.TorrentRecord{}, model.TorrentNotFound(infoHash)
	}
	return rec, nil
}

func (g *YAMLGateway) ListRecords() ([]model.TorrentRecord, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]model.TorrentRecord, 0, len(g.records))
	for _, rec := range g.records {
		out = append(out, rec)
	}
	return out, nil
}

func (g *YAMLGateway) RemoveRecord(infoHash string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.records[infoHash]; !exists {
		return nil
	}
	if err := os.Remove(g.recordPath(infoHash)); err != nil && !os.IsNotExist(err) {
		return model.DiskError("removing torrent record", err)
	}
	delete(g.records, infoHash)
	return nil
}

func (g *YAMLGateway) WriteSessionBlob(data []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tmp, err := os.CreateTemp(g.baseDir, ".tmp-session-*.blob")
	if err != nil {
		return model.DiskError("creating session blob temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return model.DiskError("writing session blob", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return model.DiskError("syncing session blob", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return model.DiskError("closing session blob", err)
	}
	if err := os.Rename(tmpPath, g.blobPath); err != nil {
		os.Remove(tmpPath)
		return model.DiskError("renaming session blob", err)
	}
	return nil
}

func (g *YAMLGateway) ReadSessionBlob() ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	data, err := os.ReadFile(g.blobPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionBlobNotFound
		}
		return nil, model.DiskError("reading session blob", err)
	}
	return data, nil
}
