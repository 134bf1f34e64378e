// Command ubinary inspects, decodes and fits instrument containers.
//
// Logging:
//   - Library packages log through a package-level zap logger (Nop by default)
//   - The root command installs one logger for segment and source
//   - --verbose selects a development logger, otherwise warnings and errors
//     are written as JSON to stderr
package main

import (
	"os"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
