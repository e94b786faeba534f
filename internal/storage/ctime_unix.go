//go:build linux || darwin || freebsd || netbsd || openbsd

package storage

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the inode change time, which is what these platforms
// expose portably in place of a birth time.
func creationTime(abs string, _ os.FileInfo) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(abs, &st); err != nil {
		return time.Time{}, err
	}
	sec, nsec := st.Ctim.Unix()
	return time.Unix(sec, nsec), nil
}
