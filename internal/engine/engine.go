// Package engine is the top-level facade (the teacher's engine.go pattern,
// generalized): it wires the Session Runtime, Torrent Registry, Persistence
// Gateway, Event Pump, and observer Bus together behind the operation set
// spec.md §4 exposes, and owns the startup/shutdown sequencing spec.md §4.5
// requires (restore before the pump starts, session blob written on
// shutdown).
package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/config"
	"github.com/murmur/torrentcore/internal/events"
	"github.com/murmur/torrentcore/internal/identifier"
	"github.com/murmur/torrentcore/internal/logging"
	"github.com/murmur/torrentcore/internal/model"
	"github.com/murmur/torrentcore/internal/persistence"
	"github.com/murmur/torrentcore/internal/pump"
	"github.com/murmur/torrentcore/internal/registry"
	"github.com/murmur/torrentcore/internal/session"
)

// Engine is the single entry point a host binary (the reference CLI, or any
// other embedder) needs to drive a torrent swarm lifecycle.
type Engine struct {
	runtime  *session.Runtime
	registry *registry.Registry
	gateway  persistence.Gateway
	bus      *events.Bus
	pump     *pump.Pump
	logger   model.Logger
}

// New constructs and starts an Engine from cfg. If cfg.Log names a level and
// format, a zap logger is built from them; pass a non-nil logger to reuse
// one the caller already owns (the reference CLI does this so command
// output and engine logs share one sink).
func New(cfg *config.Config, logger model.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if logger == nil {
		zl, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}
		logger = logging.Adapt(zl)
	}

	runtime := session.New()
	if err := runtime.Initialize(cfg.Torrent, logger); err != nil {
		return nil, fmt.Errorf("initializing session runtime: %w", err)
	}

	gateway, err := persistence.NewYAMLGateway(cfg.Persistence.RecordsDir)
	if err != nil {
		runtime.Shutdown(5 * time.Second)
		return nil, fmt.Errorf("opening persistence gateway: %w", err)
	}

	reg := registry.New(runtime, gateway, logger)
	bus := events.NewBus(logger)
	p := pump.New(runtime, reg, gateway, bus, logger)

	// Restore must run before the pump's background goroutines start, per
	// spec.md §4.5's restore-path ordering: every persisted torrent is
	// re-dispatched to the Session Runtime first, so no Added alert from a
	// live add can race a restore dispatch for the same infohash.
	if err := p.Restore(); err != nil {
		logger.Warn("restore failed, continuing with an empty registry", zap.Error(err))
	}
	p.Start()

	return &Engine{
		runtime:  runtime,
		registry: reg,
		gateway:  gateway,
		bus:      bus,
		pump:     p,
		logger:   logger,
	}, nil
}

// AddMagnet validates and accepts a magnet URI, returning its infohash as
// soon as the Session Runtime has accepted the add; the Registry entry
// itself materializes asynchronously once the Event Pump observes the
// resulting Added alert.
func (e *Engine) AddMagnet(uri, savePath string) (string, error) {
	return e.registry.AddMagnet(registry.AddMagnetParams{MagnetURI: uri, SavePath: savePath})
}

// AddMetainfo parses and accepts a BEP-3 metainfo blob, same materialization
// semantics as AddMagnet.
func (e *Engine) AddMetainfo(blob []byte, savePath string) (string, error) {
	return e.registry.AddMetainfo(registry.AddMetainfoParams{Blob: blob, SavePath: savePath})
}

// Remove drops infoHash, optionally deleting its on-disk data.
func (e *Engine) Remove(infoHash string, deleteFiles bool) error {
	return e.registry.Remove(infoHash, deleteFiles)
}

// Pause gates data transfer for infoHash.
func (e *Engine) Pause(infoHash string) error {
	return e.registry.Pause(infoHash)
}

// Resume reverses Pause.
func (e *Engine) Resume(infoHash string) error {
	return e.registry.Resume(infoHash)
}

// Recheck forces on-disk piece re-verification for infoHash.
func (e *Engine) Recheck(infoHash string) error {
	return e.registry.Recheck(infoHash)
}

// SetFilePriorities applies per-file priorities for infoHash.
func (e *Engine) SetFilePriorities(infoHash string, priorities []model.FilePriority) error {
	return e.registry.SetFilePriorities(infoHash, priorities)
}

// Move relocates infoHash's on-disk data to newPath.
func (e *Engine) Move(infoHash, newPath string) error {
	return e.registry.Move(infoHash, newPath)
}

// Status returns the cached status for infoHash.
func (e *Engine) Status(infoHash string) (model.TorrentStatus, error) {
	return e.registry.StatusOf(infoHash)
}

// List returns the cached status of every live torrent.
func (e *Engine) List() []model.TorrentStatus {
	return e.registry.ListStatuses()
}

// Create produces a BEP-3 metainfo blob for sourcePath, without adding it to
// the registry — "create" is a pure transformation per spec.md §4.4.
func (e *Engine) Create(opts identifier.CreateOptions) ([]byte, error) {
	return e.registry.Create(opts)
}

// Stats aggregates SessionStats purely from the Registry's cached statuses
// plus the Event Pump's last observed stats alert, per spec.md §4.3.
func (e *Engine) Stats() model.SessionStats {
	statuses := e.registry.ListStatuses()

	stats := e.pump.LastStats()
	stats.TotalTorrents = len(statuses)
	stats.ActiveTorrents = 0
	stats.SeedingTorrents = 0
	stats.DownloadingTorrents = 0
	stats.PausedTorrents = 0

	var downloaded, uploaded, downRate, upRate int64
	var peers int
	for _, s := range statuses {
		downloaded += s.DownloadedBytes
		uploaded += s.UploadedBytes
		downRate += s.DownRate
		upRate += s.UpRate
		peers += s.PeerCount
		switch {
		case s.Paused:
			stats.PausedTorrents++
		case s.Seeding:
			stats.SeedingTorrents++
			stats.ActiveTorrents++
		case s.State == model.StateDownloading:
			stats.DownloadingTorrents++
			stats.ActiveTorrents++
		}
	}
	stats.TotalDownloadedBytes = downloaded
	stats.TotalUploadedBytes = uploaded
	stats.GlobalDownRate = downRate
	stats.GlobalUpRate = upRate
	stats.TotalPeers = peers
	stats.GlobalRatio = model.ComputeGlobalRatio(uploaded, downloaded)

	return stats
}

// Subscribe registers a new observer on the Bus; call Unsubscribe on the
// returned Subscription when the caller no longer wants events.
func (e *Engine) Subscribe(bufferSize int) *events.Subscription {
	return e.bus.Subscribe(bufferSize)
}

// Shutdown stops the Event Pump, persists the session-state blob on demand
// (spec.md §4.2), and tears down the Session Runtime within timeout.
func (e *Engine) Shutdown(timeout time.Duration) error {
	e.pump.Stop()

	if blob, err := e.runtime.SessionBlob(); err != nil {
		e.logger.Warn("serializing session blob failed", zap.Error(err))
	} else if err := e.gateway.WriteSessionBlob(blob); err != nil {
		e.logger.Warn("writing session blob failed", zap.Error(err))
	}

	e.bus.Close()
	return e.runtime.Shutdown(timeout)
}
