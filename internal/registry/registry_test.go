package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/identifier"
	"github.com/murmur/torrentcore/internal/logging"
	"github.com/murmur/torrentcore/internal/model"
	"github.com/murmur/torrentcore/internal/persistence"
	"github.com/murmur/torrentcore/internal/session"
)

const testMagnet = "magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567&dn=demo"

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	logger := logging.Adapt(zap.NewNop())

	settings := model.DefaultTorrentSettings()
	settings.DownloadPath = filepath.Join(t.TempDir(), "downloads")
	settings.EnableDHT = false
	settings.EnablePEX = false
	settings.EnableLSD = false
	settings.EnableUPnP = false
	settings.EnableNATPMP = false

	runtime := session.New()
	if err := runtime.Initialize(settings, logger); err != nil {
		t.Fatalf("runtime.Initialize() error = %v", err)
	}
	t.Cleanup(func() { runtime.Shutdown(time.Second) })

	gateway, err := persistence.NewYAMLGateway(t.TempDir())
	if err != nil {
		t.Fatalf("persistence.NewYAMLGateway() error = %v", err)
	}

	return New(runtime, gateway, logger)
}

func TestRegistry_AddMagnetRejectsDuplicate(t *testing.T) {
	r := newTestRegistry(t)

	infoHash, err := r.AddMagnet(AddMagnetParams{MagnetURI: testMagnet})
	if err != nil {
		t.Fatalf("AddMagnet() error = %v", err)
	}
	if infoHash != "0123456789abcdef0123456789abcdef01234567" {
		t.Errorf("AddMagnet() infoHash = %q", infoHash)
	}

	// The registry entry hasn't materialized yet (the diff loop hasn't
	// ticked), so the duplicate must be caught via the pending set.
	if _, err := r.AddMagnet(AddMagnetParams{MagnetURI: testMagnet}); err == nil {
		t.Fatal("AddMagnet() expected DuplicateTorrent for a second add of the same infohash")
	} else if me, ok := err.(*model.Error); !ok || me.Kind != model.KindDuplicateTorrent {
		t.Errorf("AddMagnet() error = %v, want KindDuplicateTorrent", err)
	}

	waitForMaterialized(t, r, infoHash)

	if _, err := r.AddMagnet(AddMagnetParams{MagnetURI: testMagnet}); err == nil {
		t.Fatal("AddMagnet() expected DuplicateTorrent for an already-materialized infohash")
	} else if me, ok := err.(*model.Error); !ok || me.Kind != model.KindDuplicateTorrent {
		t.Errorf("AddMagnet() error = %v, want KindDuplicateTorrent", err)
	}
}

func waitForMaterialized(t *testing.T, r *Registry, infoHash string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.Has(infoHash) {
			return
		}
		status, ok := r.runtime.Snapshot(infoHash)
		if ok {
			r.MaterializeAdded(status)
			if r.Has(infoHash) {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("infohash %s never materialized", infoHash)
}

func TestRegistry_StatusOfUnknownInfoHash(t *testing.T) {
	r := newTestRegistry(t)

	if _, err := r.StatusOf("unknown"); err == nil {
		t.Fatal("StatusOf() expected TorrentNotFound")
	} else if me, ok := err.(*model.Error); !ok || me.Kind != model.KindTorrentNotFound {
		t.Errorf("StatusOf() error = %v, want KindTorrentNotFound", err)
	}
}

func TestRegistry_ListStatusesAndListInfohashesAgree(t *testing.T) {
	r := newTestRegistry(t)

	infoHash, err := r.AddMagnet(AddMagnetParams{MagnetURI: testMagnet})
	if err != nil {
		t.Fatalf("AddMagnet() error = %v", err)
	}
	waitForMaterialized(t, r, infoHash)

	statuses := r.ListStatuses()
	hashes := r.ListInfohashes()
	if len(statuses) != len(hashes) {
		t.Fatalf("ListStatuses() len = %d, ListInfohashes() len = %d, want equal", len(statuses), len(hashes))
	}
	if len(hashes) != 1 || hashes[0] != infoHash {
		t.Errorf("ListInfohashes() = %v, want [%s]", hashes, infoHash)
	}
}

func TestRegistry_PauseResumeInvolution(t *testing.T) {
	r := newTestRegistry(t)

	infoHash, err := r.AddMagnet(AddMagnetParams{MagnetURI: testMagnet})
	if err != nil {
		t.Fatalf("AddMagnet() error = %v", err)
	}
	waitForMaterialized(t, r, infoHash)

	if err := r.Pause(infoHash); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if err := r.Resume(infoHash); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}

	if err := r.Pause("unknown"); err == nil {
		t.Fatal("Pause() expected TorrentNotFound for an unknown infohash")
	}
	if err := r.Resume("unknown"); err == nil {
		t.Fatal("Resume() expected TorrentNotFound for an unknown infohash")
	}
}

func TestRegistry_RemoveClearsEntry(t *testing.T) {
	r := newTestRegistry(t)

	infoHash, err := r.AddMagnet(AddMagnetParams{MagnetURI: testMagnet})
	if err != nil {
		t.Fatalf("AddMagnet() error = %v", err)
	}
	waitForMaterialized(t, r, infoHash)

	if err := r.Remove(infoHash, false); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	r.Erase(infoHash)

	if r.Has(infoHash) {
		t.Error("Has() = true after Remove and Erase, want false")
	}
	if err := r.Remove(infoHash, false); err == nil {
		t.Fatal("Remove() expected TorrentNotFound for an already-removed infohash")
	}
}

func TestRegistry_AddMetainfoSucceedsWhenSpaceIsSufficient(t *testing.T) {
	r := newTestRegistry(t)

	dir := t.TempDir()
	srcFile := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(srcFile, make([]byte, 4096), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	blob, err := identifier.CreateTorrent(identifier.CreateOptions{SourcePath: srcFile})
	if err != nil {
		t.Fatalf("CreateTorrent() error = %v", err)
	}

	if _, err := r.AddMetainfo(AddMetainfoParams{Blob: blob, SavePath: filepath.Join(dir, "dest")}); err != nil {
		t.Fatalf("AddMetainfo() unexpected error for a small payload on a real filesystem: %v", err)
	}
}
