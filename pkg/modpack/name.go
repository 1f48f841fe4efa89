// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrxxx66/modpack/pkg/modprop"
)

// ErrUnsafeVersion is returned when the descriptor version would place the
// archive outside the output directory.
var ErrUnsafeVersion = errors.New("version contains a path separator")

// TimestampLayout is the local-time layout used by fallback archive names.
const TimestampLayout = "20060102_150405"

type (
	// Clock supplies the current time for fallback archive names.
	Clock interface {
		Now() time.Time
	}

	systemClock struct{}

	// ArchiveName is the outcome of archive name resolution.
	ArchiveName struct {
		// Name is the file name, without directory.
		Name string
		// Version is the descriptor version ("v" stripped), empty on fallback.
		Version string
		// Fallback holds the reason the timestamp policy was used, nil otherwise.
		Fallback error
	}
)

func (systemClock) Now() time.Time { return time.Now() }

// VersionedArchiveName returns "<product>-v<version>.zip".
func VersionedArchiveName(product, version string) string {
	return fmt.Sprintf("%s-v%s.zip", product, version)
}

// TimestampArchiveName returns "<product>_<YYYYMMDD_HHMMSS>.zip".
func TimestampArchiveName(product string, now time.Time) string {
	return fmt.Sprintf("%s_%s.zip", product, now.Format(TimestampLayout))
}

// ResolveArchiveName picks the archive file name. A version read from the
// descriptor wins; when the descriptor is missing or has no version line the
// name falls back to a timestamp and the reason is kept in Fallback. A version
// holding a path separator fails with ErrUnsafeVersion. Any other error
// reading the descriptor is returned.
func ResolveArchiveName(product, descriptor string, now time.Time) (ArchiveName, error) {
	version, err := modprop.ExtractVersion(descriptor)
	switch {
	case err == nil && strings.ContainsAny(version, `/\`):
		return ArchiveName{}, fmt.Errorf("%w: %q", ErrUnsafeVersion, version)
	case err == nil:
		return ArchiveName{Name: VersionedArchiveName(product, version), Version: version}, nil
	case errors.Is(err, modprop.ErrVersionNotFound):
		return ArchiveName{Name: TimestampArchiveName(product, now), Fallback: err}, nil
	default:
		return ArchiveName{}, err
	}
}
