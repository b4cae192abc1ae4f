// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the hot paths of a wheelpack run:
//   - METADATA parsing and wheel archive reading
//   - directory scanning
//   - dependency resolution and install ordering
//   - installer script rendering
//   - CUE configuration loading
//
// Run them with:
//
//	go test -bench=. -benchmem ./internal/benchmark/
package benchmark
