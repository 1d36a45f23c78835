package identifier

import (
	"time"

	"github.com/anacrolix/torrent/bencode"
	at "github.com/anacrolix/torrent/metainfo"

	"github.com/murmur/torrentcore/internal/model"
)

// CreateOptions are the arguments to CreateTorrent, matching the Registry's
// "create" operation in spec.md §4.4.
type CreateOptions struct {
	SourcePath string
	Trackers   []string
	Comment    string
	CreatedBy  string
	Private    bool
}

// CreateTorrent produces a BEP-3 bencoded metainfo blob for sourcePath,
// auto-selecting a piece length from the source size and hashing the source
// tree with SHA-1, exactly as spec.md §6 ("Created torrent blob") requires.
// It is built with metainfo.Info.BuildFromFilePath the way a torrent-creation
// CLI in the retrieval pack would, rather than hand-rolling piece hashing.
func CreateTorrent(opts CreateOptions) ([]byte, error) {
	info := at.Info{
		PieceLength: pieceLengthFor(opts.SourcePath),
		Private:     boolPtr(opts.Private),
	}

	if err := info.BuildFromFilePath(opts.SourcePath); err != nil {
		return nil, model.InvalidTorrentFile("building torrent info from source path", err)
	}

	infoBytes, err := bencode.Marshal(info)
	if err != nil {
		return nil, model.InvalidTorrentFile("marshaling info dictionary", err)
	}

	mi := &at.MetaInfo{
		InfoBytes:    infoBytes,
		CreationDate: time.Now().Unix(),
		Comment:      opts.Comment,
		CreatedBy:    opts.CreatedBy,
	}
	if len(opts.Trackers) > 0 {
		mi.AnnounceList = [][]string{opts.Trackers}
		mi.Announce = opts.Trackers[0]
	}

	out, err := bencode.Marshal(mi)
	if err != nil {
		return nil, model.InvalidTorrentFile("marshaling metainfo", err)
	}
	return out, nil
}

func boolPtr(b bool) *bool {
	return &b
}

// pieceLengthFor auto-selects a piece length the way common torrent-creation
// tools do: larger content gets larger pieces, bounded to keep the piece
// count in a reasonable range for client UIs.
func pieceLengthFor(path string) int64 {
	size := dirOrFileSize(path)
	switch {
	case size <= 0:
		return 256 * 1024
	case size < 64*1024*1024: // < 64 MiB
		return 256 * 1024
	case size < 512*1024*1024: // < 512 MiB
		return 1024 * 1024
	case size < 4*1024*1024*1024: // < 4 GiB
		return 2 * 1024 * 1024
	default:
		return 4 * 1024 * 1024
	}
}
