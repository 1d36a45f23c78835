package identifier

import (
	"bytes"

	at "github.com/anacrolix/torrent/metainfo"

	"github.com/murmur/torrentcore/internal/model"
)

// FileEntry is one file's path/size pair from a parsed metainfo blob.
type FileEntry struct {
	Path string
	Size int64
}

// ParsedMetainfo is the structural summary spec.md §4.1 asks parse_metainfo
// to return.
type ParsedMetainfo struct {
	Name        string
	InfoHash    string
	TotalSize   int64
	NumFiles    int
	NumPieces   int
	PieceLength int64
	Files       []FileEntry

	// raw is the original bencoded metainfo bytes, kept so callers (the
	// Session Runtime) can hand the exact original blob to the engine and to
	// the Persistence Gateway without re-deriving it.
	raw []byte
}

// Raw returns the original bytes this value was parsed from.
func (p ParsedMetainfo) Raw() []byte {
	return p.raw
}

// ParseMetainfo decodes a BEP-3 bencoded metainfo blob per spec.md §4.1. It
// fails on empty input, on framing that doesn't start with the bencoded-dict
// sentinel 'd' and end with the close sentinel 'e', or on structural errors
// from the decoder. The infohash is the SHA-1 of the bencoded info
// dictionary, lowercase hex — exactly what metainfo.HashInfoBytes computes.
func ParseMetainfo(data []byte) (ParsedMetainfo, error) {
	if len(data) == 0 {
		return ParsedMetainfo{}, model.InvalidTorrentFile("metainfo blob is empty", nil)
	}
	if data[0] != 'd' || data[len(data)-1] != 'e' {
		return ParsedMetainfo{}, model.InvalidTorrentFile("metainfo blob is not a bencoded dictionary", nil)
	}

	mi, err := at.Load(bytes.NewReader(data))
	if err != nil {
		return ParsedMetainfo{}, model.InvalidTorrentFile("decoding metainfo", err)
	}

	info, err := mi.UnmarshalInfo()
	if err != nil {
		return ParsedMetainfo{}, model.InvalidTorrentFile("decoding info dictionary", err)
	}

	files := make([]FileEntry, 0, len(info.Files))
	if len(info.Files) == 0 {
		files = append(files, FileEntry{Path: info.Name, Size: info.Length})
	} else {
		for _, f := range info.Files {
			files = append(files, FileEntry{Path: f.DisplayPath(&info), Size: f.Length})
		}
	}

	return ParsedMetainfo{
		Name:        info.Name,
		InfoHash:    mi.HashInfoBytes().HexString(),
		TotalSize:   info.TotalLength(),
		NumFiles:    len(files),
		NumPieces:   info.NumPieces(),
		PieceLength: info.PieceLength,
		Files:       files,
		raw:         data,
	}, nil
}
