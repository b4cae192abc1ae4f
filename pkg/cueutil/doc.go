// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user CUE files against an embedded schema and
// turns CUE's errors into path-prefixed messages such as
//
//	config.cue: ui.color_scheme: 2 errors in empty disjunction
package cueutil
