//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package storage

import (
	"os"
	"time"
)

func creationTime(_ string, info os.FileInfo) (time.Time, error) {
	return info.ModTime(), nil
}
