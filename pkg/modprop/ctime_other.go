// SPDX-License-Identifier: MPL-2.0

//go:build !(linux || darwin || freebsd || netbsd || openbsd || windows)

package modprop

import (
	"fmt"
	"os"
	"time"
)

// CreationTime falls back to the modification time on platforms without a
// portable change-time field.
func CreationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}
