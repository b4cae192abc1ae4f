// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/wheelpack/wheelpack/cmd/wheelpack"

func main() {
	cmd.Execute()
}
