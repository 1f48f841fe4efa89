// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/mrxxx66/modpack/cmd/modpack"

func main() {
	cmd.Execute()
}
