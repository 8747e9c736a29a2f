// Command drivescope audits Google Drive folder permissions and renders
// the result as a tree of reStructuredText pages.
package main

import (
	"os"

	"github.com/drivescope/drivescope-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
