// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin || freebsd || netbsd || openbsd

package modprop

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// CreationTime returns the inode change time of path, which is what Unix
// systems report as the file's "creation" time in stat(2).
func CreationTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	sec, nsec := st.Ctim.Unix()
	return time.Unix(sec, nsec), nil
}
