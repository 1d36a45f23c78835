package registry

import "github.com/murmur/torrentcore/internal/model"

// MaterializeAdded promotes infoHash from pending to a live entry when the
// Event Pump observes the Session Runtime's Added alert. Called exactly
// once per infohash; a second call is a no-op so a spurious duplicate alert
// can never clobber state the pump has already advanced.
func (r *Registry) MaterializeAdded(status model.TorrentStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, status.InfoHash)
	if _, ok := r.entries[status.InfoHash]; ok {
		return
	}
	r.entries[status.InfoHash] = &entry{status: status}
}

// RefreshSnapshot replaces the cached status for infoHash wholesale. The
// Event Pump calls this with a fresh Runtime snapshot on every
// TorrentFinished alert and at every stats tick, and with the edited cached
// status on a TrackerError alert.
func (r *Registry) RefreshSnapshot(status model.TorrentStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[status.InfoHash]
	if !ok {
		return
	}
	e.status = status
}

// UpdateState overwrites only the State field of infoHash's cached status,
// for pump paths that know the new state but haven't taken a full snapshot.
func (r *Registry) UpdateState(infoHash string, newState model.TorrentState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[infoHash]
	if !ok {
		return
	}
	e.status.State = newState
}

// Erase removes infoHash from both entries and pending, reporting whether
// it had been present at all. Called by Remove, and again when the Event
// Pump processes the resulting Removed alert, where a second call is a
// no-op.
func (r *Registry) Erase(infoHash string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, inEntries := r.entries[infoHash]
	_, inPending := r.pending[infoHash]
	delete(r.entries, infoHash)
	delete(r.pending, infoHash)
	return inEntries || inPending
}
