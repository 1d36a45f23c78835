package registry

import "golang.org/x/sys/unix"

// availableBytes reports the free space on the volume containing path, used
// to enforce spec.md's invariant 4 (insufficient space) before accepting a
// metainfo-based add.
func availableBytes(path string) (int64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
