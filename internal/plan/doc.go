// SPDX-License-Identifier: MPL-2.0

// Package plan orders a resolved install set so that every package is
// installed after the packages it requires.
package plan
