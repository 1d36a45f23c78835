package identifier

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/murmur/torrentcore/internal/model"
)

// forbiddenPathChars are the characters the host filesystem forbids in a
// component derived from a torrent's display name; each is replaced with
// "_" per spec.md §4.1.
const forbiddenPathChars = `<>:"/\|?*`

// traversalPatterns are rejected outright rather than sanitized, since they
// indicate an attempt to escape the configured download root.
var traversalPatterns = []string{"..", "~"}

// SanitizeTorrentName replaces every character in name forbidden by common
// host filesystems with "_", for use when composing a save directory from a
// torrent's display name.
func SanitizeTorrentName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(forbiddenPathChars, r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	sanitized := strings.TrimSpace(b.String())
	if sanitized == "" {
		sanitized = "torrent"
	}
	return sanitized
}

// SanitizeSavePath validates and normalizes a save path per spec.md §4.1:
// it rejects traversal patterns, makes the path absolute, and creates
// missing directories.
func SanitizeSavePath(path string) (string, error) {
	if path == "" {
		return "", model.PermissionDenied("save path cannot be empty", nil)
	}
	for _, pattern := range traversalPatterns {
		if strings.Contains(path, pattern) {
			return "", model.SecurityViolation("save path contains a traversal pattern: " + pattern)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", model.PermissionDenied("resolving absolute save path", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", model.PermissionDenied("creating save directory", err)
	}

	return abs, nil
}

// dirOrFileSize sums the size of path, whether it names a single file or a
// directory tree, for piece-length auto-selection in CreateTorrent.
func dirOrFileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}

	var total int64
	_ = filepath.Walk(path, func(_ string, fi os.FileInfo, err error) error {
		if err != nil || fi == nil {
			return nil
		}
		if !fi.IsDir() {
			total += fi.Size()
		}
		return nil
	})
	return total
}
