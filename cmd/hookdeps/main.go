// Command hookdeps checks the dependency lists of React hook calls.
package main

import (
	"hookdeps/internal/ui/cli"
	"os"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
