// Command paragon inspects escrow contract snapshots with the Paragon rule
// engine.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/paragon/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
