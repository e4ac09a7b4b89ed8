// SPDX-License-Identifier: MIT

package main

import cmd "github.com/m-shinder/libepoxy/cmd/epoxygen"

func main() {
	cmd.Execute()
}
