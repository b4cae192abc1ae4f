// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"strings"
	"unicode/utf8"
)

// Header keys read from METADATA.
const (
	HeaderName           = "Name"
	HeaderVersion        = "Version"
	HeaderRequiresDist   = "Requires-Dist"
	HeaderSummary        = "Summary"
	HeaderRequiresPython = "Requires-Python"
)

// Metadata is the parsed header block of a METADATA record. Every key maps
// to the values it was given, in order of appearance.
type Metadata struct {
	headers map[string][]string
	keys    []string
}

// ParseMetadata decodes the header block of a METADATA record.
//
// Lines of the form "Key: Value" are read until the first line that does
// not contain a colon, which is usually the blank line before the long
// description. Keys are case-sensitive and repeat into a sequence.
func ParseMetadata(data []byte) (Metadata, error) {
	if !utf8.Valid(data) {
		return Metadata{}, &InvalidArchiveError{Reason: ReasonEncoding}
	}

	md := Metadata{headers: make(map[string][]string)}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			break
		}
		key = strings.TrimSpace(key)
		if _, seen := md.headers[key]; !seen {
			md.keys = append(md.keys, key)
		}
		md.headers[key] = append(md.headers[key], strings.TrimSpace(value))
	}
	return md, nil
}

// Value returns the single value of key. ok is false when the key is
// absent or repeated.
func (m Metadata) Value(key string) (value string, ok bool) {
	vals := m.headers[key]
	if len(vals) != 1 {
		return "", false
	}
	return vals[0], true
}

// Values returns every value given for key, in order. An absent key yields
// an empty slice.
func (m Metadata) Values(key string) []string {
	vals := m.headers[key]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Keys returns the header keys in order of first appearance.
func (m Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// RequiresDist returns the Requires-Dist values; empty when the header is absent.
func (m Metadata) RequiresDist() []string {
	return m.Values(HeaderRequiresDist)
}

// required returns the scalar value of a mandatory header.
func (m Metadata) required(key string) (string, error) {
	vals := m.headers[key]
	switch {
	case len(vals) == 0 || strings.TrimSpace(vals[0]) == "":
		return "", &InvalidArchiveError{Reason: ReasonMissingField, Detail: key}
	case len(vals) > 1:
		return "", &InvalidArchiveError{Reason: ReasonDuplicateField, Detail: key}
	}
	return vals[0], nil
}
