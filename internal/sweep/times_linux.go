//go:build linux

package sweep

import (
	"os"
	"syscall"
	"time"
)

// entryTime reads the configured inode timestamp from a FileInfo obtained
// via Lstat, so link timestamps describe the link itself, not its target.
func entryTime(info os.FileInfo, attr TimeAttr) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	switch attr {
	case Atime:
		return time.Unix(st.Atim.Sec, st.Atim.Nsec)
	case Ctime:
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime()
}
