// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/dosomething/ds/cmd/ds"

func main() {
	cmd.Execute()
}
