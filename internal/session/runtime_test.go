package session

import (
	"path/filepath"
	"testing"
	"time"

	anatorrent "github.com/anacrolix/torrent"
	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/logging"
	"github.com/murmur/torrentcore/internal/model"
)

func testSettings(t *testing.T) model.TorrentSettings {
	t.Helper()
	s := model.DefaultTorrentSettings()
	s.DownloadPath = filepath.Join(t.TempDir(), "downloads")
	s.EnableDHT = false
	s.EnablePEX = false
	s.EnableLSD = false
	s.EnableUPnP = false
	s.EnableNATPMP = false
	return s
}

func TestRuntime_InitializeAndShutdown(t *testing.T) {
	r := New()
	logger := logging.Adapt(zap.NewNop())

	if err := r.Initialize(testSettings(t), logger); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := r.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestRuntime_InitializeRejectsInvalidSettings(t *testing.T) {
	r := New()
	logger := logging.Adapt(zap.NewNop())

	bad := testSettings(t)
	bad.DownloadPath = ""

	err := r.Initialize(bad, logger)
	if err == nil {
		t.Fatal("Initialize() expected error for empty download path")
	}
}

func TestRuntime_AsyncAddMagnet_EmitsAddedAlert(t *testing.T) {
	r := New()
	logger := logging.Adapt(zap.NewNop())
	if err := r.Initialize(testSettings(t), logger); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer r.Shutdown(time.Second)

	magnet := "magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567&dn=demo"
	infoHash, err := r.AsyncAdd(AddParams{MagnetURI: magnet})
	if err != nil {
		t.Fatalf("AsyncAdd() error = %v", err)
	}
	if infoHash != "0123456789abcdef0123456789abcdef01234567" {
		t.Errorf("AsyncAdd() infoHash = %q, want the magnet's btih", infoHash)
	}

	var alerts []Alert
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		alerts = append(alerts, r.PopAlerts()...)
		if hasAdded(alerts, infoHash) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if !hasAdded(alerts, infoHash) {
		t.Fatalf("expected an Added alert for %s, got %+v", infoHash, alerts)
	}
}

func hasAdded(alerts []Alert, infoHash string) bool {
	for _, a := range alerts {
		if a.Kind == AlertAdded && a.InfoHash == infoHash {
			return true
		}
	}
	return false
}

func TestRuntime_Snapshot(t *testing.T) {
	r := New()
	logger := logging.Adapt(zap.NewNop())
	if err := r.Initialize(testSettings(t), logger); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer r.Shutdown(time.Second)

	magnet := "magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567&dn=demo"
	infoHash, err := r.AsyncAdd(AddParams{MagnetURI: magnet})
	if err != nil {
		t.Fatalf("AsyncAdd() error = %v", err)
	}

	status, ok := r.Snapshot(infoHash)
	if !ok {
		t.Fatal("Snapshot() ok = false, want true for a tracked torrent")
	}
	if status.InfoHash != infoHash {
		t.Errorf("Snapshot().InfoHash = %q, want %q", status.InfoHash, infoHash)
	}

	if _, ok := r.Snapshot("unknown"); ok {
		t.Error("Snapshot() ok = true for an untracked infohash, want false")
	}
}

func TestRuntime_RemoveUnknownInfoHash(t *testing.T) {
	r := New()
	logger := logging.Adapt(zap.NewNop())
	if err := r.Initialize(testSettings(t), logger); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer r.Shutdown(time.Second)

	err := r.Remove("0000000000000000000000000000000000000000", false)
	if err == nil {
		t.Fatal("Remove() expected TorrentNotFound")
	}
	me, ok := err.(*model.Error)
	if !ok || me.Kind != model.KindTorrentNotFound {
		t.Errorf("Remove() error = %v, want KindTorrentNotFound", err)
	}
}

func TestRuntime_PostStatsRequest_EmitsSessionStatsAlert(t *testing.T) {
	r := New()
	logger := logging.Adapt(zap.NewNop())
	if err := r.Initialize(testSettings(t), logger); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer r.Shutdown(time.Second)

	if _, err := r.AsyncAdd(AddParams{MagnetURI: "magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567"}); err != nil {
		t.Fatalf("AsyncAdd() error = %v", err)
	}

	r.PostStatsRequest()

	alerts := r.PopAlerts()
	found := false
	for _, a := range alerts {
		if a.Kind == AlertSessionStats {
			found = true
			if a.Stats.TotalTorrents != 1 {
				t.Errorf("Stats.TotalTorrents = %d, want 1", a.Stats.TotalTorrents)
			}
		}
	}
	if !found {
		t.Fatal("expected a SessionStats alert")
	}
}

func TestToPiecePriority(t *testing.T) {
	cases := []struct {
		in   model.FilePriority
		want anatorrent.PiecePriority
	}{
		{0, anatorrent.PiecePriorityNone},
		{2, anatorrent.PiecePriorityNormal},
		{5, anatorrent.PiecePriorityHigh},
		{7, anatorrent.PiecePriorityNow},
	}
	for _, tc := range cases {
		if got := toPiecePriority(tc.in); got != tc.want {
			t.Errorf("toPiecePriority(%d) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
