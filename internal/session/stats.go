package session

import (
	anatorrent "github.com/anacrolix/torrent"

	"github.com/murmur/torrentcore/internal/model"
)

// PostStatsRequest causes the engine to emit a session_stats alert,
// consumed asynchronously by the aggregator's next drain. The underlying
// client already holds everything needed to compute the snapshot
// synchronously (unlike libtorrent, there is no separate request/response
// round trip), so this both computes and enqueues the alert in one step —
// the aggregator still only ever reads it through PopAlerts, preserving the
// request/response shape spec.md §4.3 describes.
func (r *Runtime) PostStatsRequest() {
	r.mu.Lock()
	client := r.client
	tracked := make(map[string]*trackedTorrent, len(r.tracked))
	for h, tr := range r.tracked {
		tracked[h] = tr
	}
	r.mu.Unlock()

	if client == nil {
		return
	}

	stats := model.SessionStats{
		DHTNodeCount: dhtNodeCount(client),
	}

	for _, tr := range tracked {
		s := tr.t.Stats()
		stats.TotalDownloadedBytes += s.BytesReadUsefulData.Int64()
		stats.TotalUploadedBytes += s.BytesWrittenData.Int64()
		stats.TotalPeers += s.ActivePeers
		stats.TotalTorrents++

		switch tr.lastKind {
		case model.StateDownloading, model.StateDownloadingMetadata:
			stats.DownloadingTorrents++
			stats.ActiveTorrents++
		case model.StateSeeding:
			stats.SeedingTorrents++
			stats.ActiveTorrents++
		case model.StatePaused:
			stats.PausedTorrents++
		}
	}

	stats.GlobalRatio = model.ComputeGlobalRatio(stats.TotalUploadedBytes, stats.TotalDownloadedBytes)

	r.emit(Alert{Kind: AlertSessionStats, Stats: stats})
}

// dhtNodeCount reads node counts from the client's own embedded DHT
// server(s), through anacrolix/dht/v2's Stats() — the core never implements
// DHT wire behavior itself, it only reads telemetry the library already
// tracks, exactly as spec.md's Non-goals require. Per spec.md §9's open
// question, this is only ever read from a session_stats alert; the very
// first snapshot before any DHT server has bootstrapped may legitimately
// report 0 regardless of actual state, and that behavior is preserved
// as-is rather than special-cased away.
func dhtNodeCount(client *anatorrent.Client) int {
	total := 0
	for _, srv := range client.DhtServers() {
		total += srv.Stats().Nodes
	}
	return total
}
