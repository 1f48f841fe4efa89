// SPDX-License-Identifier: MPL-2.0

//go:build windows

package modprop

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// CreationTime returns the NTFS creation time of path.
func CreationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime(), nil
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), nil
}
