// Package identifier implements the pure, referentially transparent
// functions of the Identifier & Validator component (C1): magnet URI
// validation, metainfo parsing, infohash derivation, and save-path
// sanitization. Nothing in this package touches the registry or emits
// events.
package identifier

import (
	"net/url"
	"strings"

	"github.com/murmur/torrentcore/internal/model"
)

// ParsedMagnet is the structured form of a validated magnet URI.
type ParsedMagnet struct {
	InfoHash    string
	DisplayName string
	Trackers    []string
}

// ValidateMagnet parses and validates uri per spec.md §4.1: it must begin
// with "magnet:?" and carry an "xt=urn:btih:<40-hex>" parameter. The "dn"
// and repeated "tr" parameters are captured but not otherwise validated.
func ValidateMagnet(uri string) (ParsedMagnet, error) {
	if !strings.HasPrefix(uri, "magnet:?") {
		return ParsedMagnet{}, model.InvalidMagnetLink("uri must begin with magnet:?", nil)
	}

	query := strings.TrimPrefix(uri, "magnet:?")
	values, err := url.ParseQuery(query)
	if err != nil {
		return ParsedMagnet{}, model.InvalidMagnetLink("malformed query string", err)
	}

	xt := values.Get("xt")
	if xt == "" {
		return ParsedMagnet{}, model.InvalidMagnetLink("missing xt parameter", nil)
	}

	const prefix = "urn:btih:"
	if !strings.HasPrefix(strings.ToLower(xt), prefix) {
		return ParsedMagnet{}, model.InvalidMagnetLink("xt parameter is not a urn:btih hash", nil)
	}

	hash := strings.ToLower(xt[len(prefix):])
	if len(hash) != 40 || !isHex(hash) {
		return ParsedMagnet{}, model.InvalidMagnetLink("xt hash must be 40 hex characters", nil)
	}

	return ParsedMagnet{
		InfoHash:    hash,
		DisplayName: values.Get("dn"),
		Trackers:    values["tr"],
	}, nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
