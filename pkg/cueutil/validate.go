// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize caps the size of user CUE files (1 MiB).
const DefaultMaxFileSize int64 = 1 << 20

// DecodeMap compiles data, unifies it with the schema definition at defPath
// (e.g. "#Config") and decodes the result into a map. Fields may be left
// unset: the value is validated without requiring concreteness, so callers
// merge the map over their own defaults.
func DecodeMap(schema string, defPath string, data []byte, filename string) (map[string]any, error) {
	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", schemaValue.Err())
	}
	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, FormatError(err, filename)
	}

	var out map[string]any
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	return out, nil
}
