package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/config"
	"github.com/murmur/torrentcore/internal/identifier"
	"github.com/murmur/torrentcore/internal/logging"
	"github.com/murmur/torrentcore/internal/model"
)

const testMagnet = "magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567&dn=demo"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Torrent.DownloadPath = filepath.Join(t.TempDir(), "downloads")
	cfg.Torrent.EnableDHT = false
	cfg.Torrent.EnablePEX = false
	cfg.Torrent.EnableLSD = false
	cfg.Torrent.EnableUPnP = false
	cfg.Torrent.EnableNATPMP = false
	cfg.Persistence.RecordsDir = filepath.Join(t.TempDir(), "records")

	e, err := New(cfg, logging.Adapt(zap.NewNop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { e.Shutdown(time.Second) })
	return e
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !cond() {
		t.Fatal("condition never became true")
	}
}

// Scenario 1: add a magnet, wait for the TorrentAdded event.
func TestEngine_AddMagnetEmitsAddedEvent(t *testing.T) {
	e := newTestEngine(t)
	sub := e.Subscribe(8)
	defer sub.Unsubscribe()

	infoHash, err := e.AddMagnet(testMagnet, "")
	if err != nil {
		t.Fatalf("AddMagnet() error = %v", err)
	}

	var saw bool
	timeout := time.After(2 * time.Second)
	for !saw {
		select {
		case ev := <-sub.Events():
			if ev.Kind == model.EventTorrentAdded && ev.InfoHash == infoHash {
				saw = true
			}
		case <-timeout:
			t.Fatal("timed out waiting for TorrentAdded event")
		}
	}

	waitFor(t, 2*time.Second, func() bool {
		_, err := e.Status(infoHash)
		return err == nil
	})
}

// Scenario 2: adding the same infohash twice is rejected.
func TestEngine_AddMagnetRejectsDuplicate(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.AddMagnet(testMagnet, ""); err != nil {
		t.Fatalf("first AddMagnet() error = %v", err)
	}
	if _, err := e.AddMagnet(testMagnet, ""); err == nil {
		t.Fatal("second AddMagnet() expected an error, got nil")
	}
}

// Scenario 3: pause then resume both succeed on a materialized torrent.
func TestEngine_PauseResume(t *testing.T) {
	e := newTestEngine(t)

	infoHash, err := e.AddMagnet(testMagnet, "")
	if err != nil {
		t.Fatalf("AddMagnet() error = %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		_, err := e.Status(infoHash)
		return err == nil
	})

	if err := e.Pause(infoHash); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if err := e.Resume(infoHash); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
}

// Scenario 4: remove without deleting files clears the registry entry.
func TestEngine_RemoveWithoutDeletingFiles(t *testing.T) {
	e := newTestEngine(t)

	infoHash, err := e.AddMagnet(testMagnet, "")
	if err != nil {
		t.Fatalf("AddMagnet() error = %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		_, err := e.Status(infoHash)
		return err == nil
	})

	if err := e.Remove(infoHash, false); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		_, err := e.Status(infoHash)
		return err != nil
	})
}

// Scenario 5: create produces a metainfo blob that round-trips through
// AddMetainfo.
func TestEngine_CreateThenAddMetainfoRoundTrips(t *testing.T) {
	e := newTestEngine(t)

	dir := t.TempDir()
	srcFile := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(srcFile, make([]byte, 8192), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	blob, err := e.Create(identifier.CreateOptions{SourcePath: srcFile})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	infoHash, err := e.AddMetainfo(blob, filepath.Join(t.TempDir(), "save"))
	if err != nil {
		t.Fatalf("AddMetainfo() error = %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		_, err := e.Status(infoHash)
		return err == nil
	})
}

// Scenario 6: restart restores a previously persisted torrent record.
func TestEngine_RestartRestoresPersistedRecord(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Torrent.DownloadPath = filepath.Join(t.TempDir(), "downloads")
	cfg.Torrent.EnableDHT = false
	cfg.Torrent.EnablePEX = false
	cfg.Torrent.EnableLSD = false
	cfg.Torrent.EnableUPnP = false
	cfg.Torrent.EnableNATPMP = false
	cfg.Persistence.RecordsDir = filepath.Join(t.TempDir(), "records")
	logger := logging.Adapt(zap.NewNop())

	e1, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	infoHash, err := e1.AddMagnet(testMagnet, "")
	if err != nil {
		t.Fatalf("AddMagnet() error = %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		_, err := e1.Status(infoHash)
		return err == nil
	})
	if err := e1.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	e2, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer e2.Shutdown(time.Second)

	waitFor(t, 2*time.Second, func() bool {
		_, err := e2.Status(infoHash)
		return err == nil
	})
}

func TestEngine_StatsReflectsListedTorrents(t *testing.T) {
	e := newTestEngine(t)

	infoHash, err := e.AddMagnet(testMagnet, "")
	if err != nil {
		t.Fatalf("AddMagnet() error = %v", err)
	}
	waitFor(t, 2*time.Second, func() bool {
		_, err := e.Status(infoHash)
		return err == nil
	})

	stats := e.Stats()
	if stats.TotalTorrents != 1 {
		t.Errorf("Stats().TotalTorrents = %d, want 1", stats.TotalTorrents)
	}
}
