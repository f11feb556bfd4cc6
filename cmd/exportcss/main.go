// Command exportcss writes the embedded map stylesheets to a directory so
// they can be served by another web server.
package main

import (
	"flag"
	"log/slog"
	"os"

	"elcmap/internal/logging"
	"elcmap/internal/styles"
)

func main() {
	dir := flag.String("dir", "Style", "Output directory")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stderr, slog.LevelInfo)

	if _, err := styles.Export(*dir, logger); err != nil {
		logging.LogError(logger, "failed to export stylesheets", err)
		os.Exit(1)
	}
}
