// Command ipgen generates parametrized wrappers of IP cores and the build
// scaffolding that the synthesis toolchain consumes.
package main

import "github.com/sarchlab/ipgen/ipgen/cmd"

func main() {
	cmd.Execute()
}
