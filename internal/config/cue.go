// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// maxConfigFileSize bounds the config files handed to the CUE compiler.
const maxConfigFileSize = 1 << 20

// decodeConfigFile checks data against the #Config schema and returns the keys
// it sets. Every field is optional, so unset values are not an error.
func decodeConfigFile(filename string, data []byte) (map[string]any, error) {
	if len(data) > maxConfigFileSize {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("internal error: config schema: %w", schema.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, cueFileError(filename, userValue.Err())
	}

	unified := schema.Unify(userValue)
	if err := unified.Validate(); err != nil {
		return nil, cueFileError(filename, err)
	}

	var values map[string]any
	if err := unified.Decode(&values); err != nil {
		return nil, cueFileError(filename, err)
	}
	return values, nil
}

// cueFileError prefixes each CUE error with the file name and the dotted key
// it refers to, e.g. "modpack.cue: release.download_base: invalid value".
func cueFileError(filename string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		key := strings.Join(cueerrors.Path(e), ".")
		msg := e.Error()
		if key == "" {
			lines = append(lines, msg)
			continue
		}
		msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, key), ":"))
		lines = append(lines, key+": "+msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filename, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filename, strings.Join(lines, "\n  "))
}
