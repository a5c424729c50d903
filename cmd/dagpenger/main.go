/*
main.go - Application entry point

COMMANDS:
  dagpenger calculate    Calculate and review one claim
  dagpenger grunnbelop   Show G and its thresholds
  dagpenger serve        Run the HTTP API

EXAMPLES:
  # The three-year demo claim, reviewed by Ola Nordmann
  ./dagpenger calculate

  # Offline, against the seeded G table
  DAGPENGER_G_SOURCE=sqlite ./dagpenger calculate -s 2024=550000 -s 2023=500000

  # API on port 3000
  ./dagpenger serve --addr :3000

SEE ALSO:
  - cli/root.go: Command tree and config loading
  - config/config.go: TOML settings and environment overrides
*/
package main

import (
	"os"

	"github.com/warp/benefit-engine/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
