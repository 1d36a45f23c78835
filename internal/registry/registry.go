// Package registry implements the Torrent Registry: a thread-safe map from
// infohash to live handle plus cached status, enforcing uniqueness and
// driving the lifecycle operations the rest of the core calls through.
package registry

import (
	"sync"

	"github.com/murmur/torrentcore/internal/identifier"
	"github.com/murmur/torrentcore/internal/model"
	"github.com/murmur/torrentcore/internal/persistence"
	"github.com/murmur/torrentcore/internal/session"
)

// entry is a live registry row: the cached status the Registry serves to
// readers without touching the Session Runtime.
type entry struct {
	status model.TorrentStatus
}

// Registry is the concurrent map described by spec.md §4.4. All map
// mutations and status updates are serialized by a single-writer /
// many-readers discipline via mu.
type Registry struct {
	mu sync.RWMutex

	// entries holds materialized torrents: ones the Event Pump has already
	// seen an Added alert for.
	entries map[string]*entry

	// pending holds infohashes accepted by the Session Runtime but not yet
	// materialized, so a second add for the same infohash is rejected even
	// inside the race window between accept and the Added alert.
	pending map[string]struct{}

	runtime *session.Runtime
	gateway persistence.Gateway
	logger  model.Logger
}

// New constructs a Registry wired to the given Session Runtime and
// Persistence Gateway.
func New(runtime *session.Runtime, gateway persistence.Gateway, logger model.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		pending: make(map[string]struct{}),
		runtime: runtime,
		gateway: gateway,
		logger:  logger,
	}
}

// Has reports whether infoHash names a live (materialized) entry.
func (r *Registry) Has(infoHash string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[infoHash]
	return ok
}

// StatusOf returns the cached status for infoHash, or TorrentNotFound.
func (r *Registry) StatusOf(infoHash string) (model.TorrentStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[infoHash]
	if !ok {
		return model.TorrentStatus{}, model.TorrentNotFound(infoHash)
	}
	return e.status.Clone(), nil
}

// ListStatuses returns the cached status of every live entry. Its length is
// always equal to ListInfohashes's, per spec.md invariant 5.
func (r *Registry) ListStatuses() []model.TorrentStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.TorrentStatus, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.status.Clone())
	}
	return out
}

// ListInfohashes returns the infohash of every live entry.
func (r *Registry) ListInfohashes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.entries))
	for h := range r.entries {
		out = append(out, h)
	}
	return out
}

// Create produces a BEP-3 metainfo blob without touching the registry map;
// "create" is a pure transformation, not an add (spec.md §4.4 table).
func (r *Registry) Create(opts identifier.CreateOptions) ([]byte, error) {
	return identifier.CreateTorrent(opts)
}
