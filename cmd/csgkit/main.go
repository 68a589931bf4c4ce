// Command csgkit evaluates csgkit scripts and runs one-off solid
// operations from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "csgkit:", err)
		os.Exit(1)
	}
}
