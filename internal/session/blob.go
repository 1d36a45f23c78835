package session

import (
	"gopkg.in/yaml.v3"

	"github.com/murmur/torrentcore/internal/model"
)

// sessionBlob is the opaque-to-callers payload written by SessionBlob and
// read back by ApplySessionBlob. anacrolix/torrent does not expose a
// serializable DHT routing table or tracker cache through this Runtime's
// API surface, so the blob's scope is narrowed to the one piece of session
// state this engine can actually round-trip: the applied TorrentSettings.
// Callers outside this package never decode the bytes themselves, so the
// narrowing is invisible at the Gateway boundary.
type sessionBlob struct {
	Settings model.TorrentSettings `yaml:"settings"`
}

// SessionBlob serializes the currently applied settings for persistence.
func (r *Runtime) SessionBlob() ([]byte, error) {
	r.mu.Lock()
	settings := r.settings
	r.mu.Unlock()

	return yaml.Marshal(sessionBlob{Settings: settings})
}

// ApplySessionBlob decodes data and applies it as settings, before any
// torrent is restored, per spec.md §4.5's restore-path ordering.
func (r *Runtime) ApplySessionBlob(data []byte) error {
	var blob sessionBlob
	if err := yaml.Unmarshal(data, &blob); err != nil {
		return model.SessionError("decoding session blob", err)
	}
	return r.ApplySettings(blob.Settings)
}
