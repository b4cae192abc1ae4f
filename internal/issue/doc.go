// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages a user can act on.
//
// ActionableError carries the failed operation, the file or package involved,
// and concrete next steps. Each class of failure also has a markdown page in
// the issue catalog, rendered for the terminal with glamour.
package issue
