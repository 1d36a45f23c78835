// Package pump implements the Event Pump & Aggregator (C5): two independent
// periodic tasks that drain the Session Runtime's alert queue, update the
// Torrent Registry and Persistence Gateway, and publish typed events; plus
// the one-shot startup restore path. Torrent records are written to the
// Persistence Gateway only from here (the engine facade writes the session
// blob at shutdown), in the same spirit as the teacher's single background worker goroutine
// (pkg/daemon/daemon.go's backgroundWorker) driving all of a daemon's
// periodic state transitions from one place.
package pump

import (
	"encoding/base64"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/murmur/torrentcore/internal/events"
	"github.com/murmur/torrentcore/internal/model"
	"github.com/murmur/torrentcore/internal/persistence"
	"github.com/murmur/torrentcore/internal/registry"
	"github.com/murmur/torrentcore/internal/session"
)

// alertCadence matches the Session Runtime's own snapshot-diff cadence so no
// edge is left undrained for more than one tick.
const alertCadence = 100 * time.Millisecond

// statsCadence is the stats aggregator's period, per spec.md §4.5.
const statsCadence = time.Second

// Pump wires the Session Runtime's alert stream to the Registry, the
// Persistence Gateway, and the observer Bus.
type Pump struct {
	runtime  *session.Runtime
	registry *registry.Registry
	gateway  persistence.Gateway
	bus      *events.Bus
	logger   model.Logger

	mu       sync.Mutex
	stopCh   chan struct{}
	wg       sync.WaitGroup
	lastStat model.SessionStats
}

// New constructs a Pump wired to its collaborators. Call Start to begin the
// two background tasks.
func New(runtime *session.Runtime, reg *registry.Registry, gateway persistence.Gateway, bus *events.Bus, logger model.Logger) *Pump {
	return &Pump{
		runtime:  runtime,
		registry: reg,
		gateway:  gateway,
		bus:      bus,
		logger:   logger,
	}
}

// Start launches the alert pump and stats aggregator goroutines.
func (p *Pump) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopCh != nil {
		return
	}
	p.stopCh = make(chan struct{})

	p.wg.Add(2)
	go p.alertLoop()
	go p.statsLoop()
}

// Stop signals both background tasks to exit and waits for them to drain
// their current batch before returning.
func (p *Pump) Stop() {
	p.mu.Lock()
	stopCh := p.stopCh
	p.mu.Unlock()
	if stopCh == nil {
		return
	}
	close(stopCh)
	p.wg.Wait()

	p.mu.Lock()
	p.stopCh = nil
	p.mu.Unlock()
}

func (p *Pump) alertLoop() {
	defer p.wg.Done()
	ticker := time.NewTicker(alertCadence)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			p.drainAlerts()
			return
		case <-ticker.C:
			p.drainAlerts()
		}
	}
}

func (p *Pump) statsLoop() {
	defer p.wg.Done()
	ticker := time.NewTicker(statsCadence)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.runtime.PostStatsRequest()
			for _, h := range p.registry.ListInfohashes() {
				status, ok := p.runtime.Snapshot(h)
				if !ok {
					continue
				}
				if prev, err := p.registry.StatusOf(h); err == nil && status.Error == "" {
					status.Error = prev.Error
				}
				p.registry.RefreshSnapshot(status)
			}
		}
	}
}

// drainAlerts pulls every pending alert and classifies it. Per spec.md §8
// invariant 3, alerts for the same torrent are processed in the order
// PopAlerts returned them, which is itself the Runtime's emission order —
// this loop never reorders or batches by infohash.
func (p *Pump) drainAlerts() {
	for _, a := range p.runtime.PopAlerts() {
		p.classify(a)
	}
}

func (p *Pump) classify(a session.Alert) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("recovered from panic classifying alert",
				zap.String("kind", a.Kind.String()),
				zap.String("info_hash", a.InfoHash),
			)
		}
	}()

	switch a.Kind {
	case session.AlertAdded:
		p.handleAdded(a)
	case session.AlertRemoved:
		p.handleRemoved(a)
	case session.AlertStateChanged:
		p.handleStateChanged(a)
	case session.AlertTorrentFinished:
		p.handleFinished(a)
	case session.AlertTrackerError:
		p.handleTrackerError(a)
	case session.AlertTrackerWarning:
		p.handleTrackerWarning(a)
	case session.AlertSessionStats:
		p.handleSessionStats(a)
	default:
		// AlertUnknown and anything future: ignored, per spec.md §4.5's table.
	}
}

func (p *Pump) handleAdded(a session.Alert) {
	status := a.Status
	if status.Name == "" {
		status.Name = displayNameOr(a.Name, a.InfoHash)
	}
	p.registry.MaterializeAdded(status)

	record := recordFromStatus(status)
	record.MagnetURI = a.MagnetURI
	if len(a.MetainfoBlob) > 0 {
		record.MetainfoBlobBase64 = encodeBlob(a.MetainfoBlob)
	}
	if err := p.gateway.AddRecord(record); err != nil {
		p.logger.Warn("persisting new torrent record failed", zap.String("info_hash", a.InfoHash), zap.Error(err))
	}

	p.bus.Publish(model.Event{Kind: model.EventTorrentAdded, InfoHash: status.InfoHash, Name: status.Name})
}

func (p *Pump) handleRemoved(a session.Alert) {
	p.registry.Erase(a.InfoHash)
	if err := p.gateway.RemoveRecord(a.InfoHash); err != nil {
		p.logger.Warn("removing torrent record failed", zap.String("info_hash", a.InfoHash), zap.Error(err))
	}
	p.bus.Publish(model.Event{Kind: model.EventTorrentRemoved, InfoHash: a.InfoHash})
}

func (p *Pump) handleStateChanged(a session.Alert) {
	p.registry.UpdateState(a.InfoHash, a.NewState)
	p.persistSnapshot(a.InfoHash)
	p.bus.Publish(model.Event{
		Kind:     model.EventTorrentStateChanged,
		InfoHash: a.InfoHash,
		OldState: a.OldState,
		NewState: a.NewState,
	})
}

func (p *Pump) handleFinished(a session.Alert) {
	status := a.Status
	status.Finished = true
	status.Progress = 1.0
	p.registry.RefreshSnapshot(status)
	p.persistSnapshot(a.InfoHash)
	p.bus.Publish(model.Event{Kind: model.EventTorrentFinished, InfoHash: a.InfoHash})
}

func (p *Pump) handleTrackerError(a session.Alert) {
	status, err := p.registry.StatusOf(a.InfoHash)
	if err == nil {
		status.Error = a.Message
		p.registry.RefreshSnapshot(status)
	}
	p.bus.Publish(model.Event{
		Kind:     model.EventTrackerError,
		InfoHash: a.InfoHash,
		Tracker:  a.Tracker,
		Message:  a.Message,
	})
}

func (p *Pump) handleTrackerWarning(a session.Alert) {
	p.bus.Publish(model.Event{
		Kind:     model.EventTrackerWarning,
		InfoHash: a.InfoHash,
		Tracker:  a.Tracker,
		Message:  a.Message,
	})
}

func (p *Pump) handleSessionStats(a session.Alert) {
	p.mu.Lock()
	p.lastStat = a.Stats
	p.mu.Unlock()
	p.bus.Publish(model.Event{Kind: model.EventSessionStatsUpdated, Stats: a.Stats})
}

// LastStats returns the most recently observed SessionStats, or the zero
// value before the first stats alert has been processed.
func (p *Pump) LastStats() model.SessionStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastStat
}

// persistSnapshot re-reads the cached status from the Registry and writes
// the mutable fields through to the Persistence Gateway via a patch, rather
// than a full AddRecord, matching spec.md §4.2's update_record contract.
func (p *Pump) persistSnapshot(infoHash string) {
	status, err := p.registry.StatusOf(infoHash)
	if err != nil {
		return
	}

	statusStr := status.State.String()
	files := make([]string, len(status.Files))
	for i, f := range status.Files {
		files[i] = f.Path
	}
	patch := persistence.RecordPatch{
		Progress:        &status.Progress,
		Status:          &statusStr,
		Seeders:         &status.Seeders,
		Leechers:        &status.Leechers,
		DownloadedBytes: &status.DownloadedBytes,
		UploadedBytes:   &status.UploadedBytes,
		Ratio:           &status.Ratio,
		Files:           &files,
	}
	touch := true
	patch.LastActive = &touch

	if err := p.gateway.UpdateRecord(infoHash, patch); err != nil {
		p.logger.Warn("updating torrent record failed", zap.String("info_hash", infoHash), zap.Error(err))
	}
}

func displayNameOr(name, infoHash string) string {
	if name != "" {
		return name
	}
	if len(infoHash) >= 8 {
		return "Torrent " + infoHash[:8]
	}
	return "Torrent " + infoHash
}

func recordFromStatus(status model.TorrentStatus) model.TorrentRecord {
	files := make([]string, len(status.Files))
	var total int64
	for i, f := range status.Files {
		files[i] = f.Path
		total += f.Size
	}
	return model.TorrentRecord{
		InfoHash:        status.InfoHash,
		Name:            status.Name,
		SizeBytes:       total,
		SavePath:        status.SavePath,
		Progress:        status.Progress,
		Status:          status.State.String(),
		Seeders:         status.Seeders,
		Leechers:        status.Leechers,
		DownloadedBytes: status.DownloadedBytes,
		UploadedBytes:   status.UploadedBytes,
		Ratio:           status.Ratio,
		Files:           files,
		Paused:          status.Paused,
	}
}

// encodeBlob is the shared base64 encoding used both when a record's
// metainfo blob is first captured and when restore decodes it back.
func encodeBlob(blob []byte) string {
	return base64.StdEncoding.EncodeToString(blob)
}
