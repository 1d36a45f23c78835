package session

import (
	"fmt"
	"os"
	"sync"
	"time"

	anatorrent "github.com/anacrolix/torrent"
	"github.com/anacrolix/torrent/storage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/murmur/torrentcore/internal/model"
)

// diffCadence is how often the snapshot-diff goroutine re-scans the
// client's torrents for the alert queue anacrolix/torrent doesn't provide
// natively. It matches the alert pump's own 100ms cadence so no edge is
// missed between one drain and the next snapshot.
const diffCadence = 100 * time.Millisecond

// trackedTorrent is the Runtime's own bookkeeping for a torrent it has
// handed to the client, used purely to detect edges between snapshots.
type trackedTorrent struct {
	t         *anatorrent.Torrent
	addedAt   time.Time
	paused    bool
	announced bool
	finished  bool
	lastKind  model.TorrentState

	// magnetURI and metainfoBlob are kept so the Added alert can carry
	// enough for the Event Pump to persist a reconstructible record without
	// the Session Runtime depending on the Persistence Gateway itself.
	magnetURI    string
	metainfoBlob []byte
	savePath     string
}

// Runtime wraps a *torrent.Client and adapts its poll-based API to the
// pop_alerts contract spec.md §4.3 requires.
type Runtime struct {
	mu       sync.Mutex
	client   *anatorrent.Client
	logger   model.Logger
	settings model.TorrentSettings

	tracked map[string]*trackedTorrent

	alerts  chan Alert
	stopDif chan struct{}
	wg      sync.WaitGroup

	downloadLimiter *rate.Limiter
	uploadLimiter   *rate.Limiter
}

// New constructs an un-initialized Runtime; call Initialize before use.
func New() *Runtime {
	return &Runtime{
		tracked: make(map[string]*trackedTorrent),
		alerts:  make(chan Alert, 1024),
	}
}

// Initialize is one-shot: it constructs the session with a settings pack
// derived from TorrentSettings and starts the background snapshot-diff
// goroutine that sources pop_alerts. It fails with SessionError if the
// session cannot be constructed, matching spec.md §4.3.
func (r *Runtime) Initialize(settings model.TorrentSettings, logger model.Logger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if logger == nil {
		return model.SessionError("logger must not be nil", nil)
	}
	if err := settings.Validate(); err != nil {
		return model.SessionError("invalid settings", err)
	}

	cfg, err := buildClientConfig(settings)
	if err != nil {
		return model.SessionError("building client config", err)
	}

	client, err := anatorrent.NewClient(cfg)
	if err != nil {
		return model.SessionError("constructing torrent client", err)
	}

	r.client = client
	r.logger = logger
	r.settings = settings
	r.stopDif = make(chan struct{})
	r.downloadLimiter = cfg.DownloadRateLimiter
	r.uploadLimiter = cfg.UploadRateLimiter

	r.wg.Add(1)
	go r.diffLoop()

	logger.Info("session runtime initialized",
		zap.String("download_path", settings.DownloadPath),
		zap.Bool("dht_enabled", settings.EnableDHT),
	)
	return nil
}

// buildClientConfig mirrors the teacher's buildClientConfig, generalized
// from a fixed application config to the per-session TorrentSettings this
// core accepts at the API boundary.
func buildClientConfig(settings model.TorrentSettings) (*anatorrent.ClientConfig, error) {
	cfg := anatorrent.NewDefaultClientConfig()

	if settings.DownloadPath == "" {
		return nil, fmt.Errorf("download path must not be empty")
	}
	if err := os.MkdirAll(settings.DownloadPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating download path: %w", err)
	}
	cfg.DataDir = settings.DownloadPath
	cfg.DefaultStorage = storage.NewFileOpts(storage.NewFileClientOpts{
		ClientBaseDir: settings.DownloadPath,
	})

	cfg.NoDHT = !settings.EnableDHT
	cfg.DisablePEX = !settings.EnablePEX
	cfg.NoDefaultPortForwarding = !settings.EnableUPnP && !settings.EnableNATPMP

	if settings.MaxConnections > 0 {
		cfg.EstablishedConnsPerTorrent = settings.MaxConnections
		cfg.HalfOpenConnsPerTorrent = settings.MaxConnections / 2
		cfg.TotalHalfOpenConns = settings.MaxConnections
	}

	if rateBps := settings.DownloadRateBytesPerSec(); rateBps > 0 {
		cfg.DownloadRateLimiter = rate.NewLimiter(rate.Limit(rateBps), int(rateBps))
	}
	if rateBps := settings.UploadRateBytesPerSec(); rateBps > 0 {
		cfg.UploadRateLimiter = rate.NewLimiter(rate.Limit(rateBps), int(rateBps))
	}

	cfg.Seed = settings.SeedWhenComplete
	if settings.UserAgent != "" {
		cfg.HTTPUserAgent = settings.UserAgent
	}

	return cfg, nil
}

// ApplySettings hot-updates rate caps without restarting the session. Most
// other settings (DHT, PEX, connection limits) require a client restart in
// anacrolix/torrent, since they are fixed at torrent.NewClient time; those
// fields are recorded for the next Initialize but not hot-applied, which is
// narrower than spec.md's "hot-updates ... feature toggles" ideal — recorded
// as a known limitation rather than silently pretended away.
func (r *Runtime) ApplySettings(settings model.TorrentSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return model.SessionError("runtime not initialized", nil)
	}
	if err := settings.Validate(); err != nil {
		return model.SessionError("invalid settings", err)
	}

	if r.downloadLimiter != nil {
		if bps := settings.DownloadRateBytesPerSec(); bps > 0 {
			r.downloadLimiter.SetLimit(rate.Limit(bps))
			r.downloadLimiter.SetBurst(int(bps))
		}
	}
	if r.uploadLimiter != nil {
		if bps := settings.UploadRateBytesPerSec(); bps > 0 {
			r.uploadLimiter.SetLimit(rate.Limit(bps))
			r.uploadLimiter.SetBurst(int(bps))
		}
	}

	r.settings = settings
	return nil
}

// Shutdown pauses all handles, waits bounded for a final alert batch, then
// releases the session, per spec.md §4.3.
func (r *Runtime) Shutdown(timeout time.Duration) error {
	r.mu.Lock()
	client := r.client
	stopDif := r.stopDif
	r.mu.Unlock()

	if client == nil {
		return nil
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	r.mu.Lock()
	for _, tr := range r.tracked {
		tr.t.DisallowDataDownload()
		tr.t.DisallowDataUpload()
	}
	r.mu.Unlock()

	if stopDif != nil {
		close(stopDif)
	}
	waited := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(timeout):
		r.logger.Warn("timed out waiting for final alert batch during shutdown")
	}

	if errs := client.Close(); len(errs) > 0 {
		r.logger.Warn("errors while closing torrent client", zap.Int("error_count", len(errs)))
	}

	r.mu.Lock()
	r.client = nil
	r.mu.Unlock()
	return nil
}
