package identifier

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/murmur/torrentcore/internal/model"
)

func TestValidateMagnet(t *testing.T) {
	hash := "0123456789abcdef0123456789abcdef01234567"

	t.Run("valid with display name and trackers", func(t *testing.T) {
		uri := "magnet:?xt=urn:btih:" + hash + "&dn=My+Show&tr=udp://tracker.example:80&tr=udp://tracker2.example:80"
		got, err := ValidateMagnet(uri)
		if err != nil {
			t.Fatalf("ValidateMagnet() error = %v", err)
		}
		if got.InfoHash != hash {
			t.Errorf("InfoHash = %q, want %q", got.InfoHash, hash)
		}
		if got.DisplayName != "My Show" {
			t.Errorf("DisplayName = %q, want %q", got.DisplayName, "My Show")
		}
		if len(got.Trackers) != 2 {
			t.Fatalf("Trackers = %v, want 2 entries", got.Trackers)
		}
	})

	t.Run("uppercase hash is normalized", func(t *testing.T) {
		uri := "magnet:?xt=urn:btih:" + "0123456789ABCDEF0123456789ABCDEF01234567"
		got, err := ValidateMagnet(uri)
		if err != nil {
			t.Fatalf("ValidateMagnet() error = %v", err)
		}
		if got.InfoHash != hash {
			t.Errorf("InfoHash = %q, want lowercase %q", got.InfoHash, hash)
		}
	})

	cases := []struct {
		name string
		uri  string
	}{
		{"missing scheme", "xt=urn:btih:" + hash},
		{"missing xt", "magnet:?dn=foo"},
		{"not a btih urn", "magnet:?xt=urn:sha1:" + hash},
		{"short hash", "magnet:?xt=urn:btih:abcd"},
		{"non-hex hash", "magnet:?xt=urn:btih:zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateMagnet(tc.uri)
			if err == nil {
				t.Fatal("ValidateMagnet() expected error, got nil")
			}
			var me *model.Error
			if !errors.As(err, &me) || me.Kind != model.KindInvalidMagnetLink {
				t.Errorf("error = %v, want KindInvalidMagnetLink", err)
			}
		})
	}
}

func TestParseMetainfo_RejectsMalformedInput(t *testing.T) {
	t.Run("empty blob", func(t *testing.T) {
		_, err := ParseMetainfo(nil)
		var me *model.Error
		if !errors.As(err, &me) || me.Kind != model.KindInvalidTorrentFile {
			t.Fatalf("error = %v, want KindInvalidTorrentFile", err)
		}
	})

	t.Run("bad bencode framing", func(t *testing.T) {
		_, err := ParseMetainfo([]byte("not-a-bencoded-dict"))
		var me *model.Error
		if !errors.As(err, &me) || me.Kind != model.KindInvalidTorrentFile {
			t.Fatalf("error = %v, want KindInvalidTorrentFile", err)
		}
	})

	t.Run("dict framing but garbage body", func(t *testing.T) {
		_, err := ParseMetainfo([]byte("d garbage e"))
		if err == nil {
			t.Fatal("ParseMetainfo() expected error, got nil")
		}
	})
}

func TestCreateTorrent_ThenParseMetainfo_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "b.txt"), []byte("goodbye world"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	blob, err := CreateTorrent(CreateOptions{
		SourcePath: src,
		Trackers:   []string{"udp://tracker.example:80"},
		Comment:    "created in a test",
		CreatedBy:  "torrentcore-test",
	})
	if err != nil {
		t.Fatalf("CreateTorrent() error = %v", err)
	}

	parsed, err := ParseMetainfo(blob)
	if err != nil {
		t.Fatalf("ParseMetainfo(CreateTorrent()) error = %v", err)
	}

	if parsed.NumFiles != 2 {
		t.Errorf("NumFiles = %d, want 2", parsed.NumFiles)
	}
	if parsed.TotalSize != int64(len("hello world")+len("goodbye world")) {
		t.Errorf("TotalSize = %d, want %d", parsed.TotalSize, len("hello world")+len("goodbye world"))
	}
	if len(parsed.InfoHash) != 40 {
		t.Errorf("InfoHash = %q, want 40 hex characters", parsed.InfoHash)
	}
	if string(parsed.Raw()) != string(blob) {
		t.Error("Raw() did not return the original bytes")
	}
}

func TestSanitizeTorrentName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Normal Name", "Normal Name"},
		{`bad:name/with*chars?`, "bad_name_with_chars_"},
		{"", "torrent"},
		{"   ", "torrent"},
	}
	for _, tc := range cases {
		if got := SanitizeTorrentName(tc.in); got != tc.want {
			t.Errorf("SanitizeTorrentName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeSavePath(t *testing.T) {
	t.Run("creates missing directories", func(t *testing.T) {
		base := t.TempDir()
		target := filepath.Join(base, "downloads", "show")
		got, err := SanitizeSavePath(target)
		if err != nil {
			t.Fatalf("SanitizeSavePath() error = %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("SanitizeSavePath() = %q, want an absolute path", got)
		}
		if info, err := os.Stat(got); err != nil || !info.IsDir() {
			t.Errorf("SanitizeSavePath() did not create %q", got)
		}
	})

	t.Run("rejects traversal", func(t *testing.T) {
		_, err := SanitizeSavePath("../escape")
		var me *model.Error
		if !errors.As(err, &me) || me.Kind != model.KindSecurityViolation {
			t.Fatalf("error = %v, want KindSecurityViolation", err)
		}
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := SanitizeSavePath("")
		var me *model.Error
		if !errors.As(err, &me) || me.Kind != model.KindPermissionDenied {
			t.Fatalf("error = %v, want KindPermissionDenied", err)
		}
	})
}
