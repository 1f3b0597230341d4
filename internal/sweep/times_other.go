//go:build !linux && !darwin

package sweep

import (
	"os"
	"time"
)

// entryTime falls back to the modification time on platforms where the
// raw stat structure is not available.
func entryTime(info os.FileInfo, _ TimeAttr) time.Time {
	return info.ModTime()
}
