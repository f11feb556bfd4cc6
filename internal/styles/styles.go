// Package styles bundles the map client's ELC form stylesheets.
package styles

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"elcmap/internal/logging"
)

//go:embed css/*.css
var cssFS embed.FS

const filePrefix = "elc-ui"

// ErrUnknownStylesheet is returned by Read for names not in the bundle.
var ErrUnknownStylesheet = errors.New("unknown stylesheet")

// Names returns the bundled stylesheet names without extension, sorted.
func Names() []string {
	entries, err := fs.ReadDir(cssFS, "css")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

// ExportFileName is the file a stylesheet is written to: "route-input"
// becomes "elc-ui-route-input.css", while "elc-ui" stays "elc-ui.css".
func ExportFileName(name string) string {
	file := name + ".css"
	if !strings.HasPrefix(file, filePrefix) {
		file = filePrefix + "-" + file
	}
	return file
}

// Read returns a stylesheet by bundle name, bundle file name or exported
// file name.
func Read(name string) ([]byte, error) {
	name = strings.TrimSuffix(path.Base(name), ".css")
	for _, candidate := range Names() {
		if name == candidate || name+".css" == ExportFileName(candidate) {
			return cssFS.ReadFile("css/" + candidate + ".css")
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStylesheet, name)
}

// Export writes every stylesheet to dir and returns the paths written. An
// existing dir is reused. A failed write is logged and the rest continue.
func Export(dir string, logger *slog.Logger) ([]string, error) {
	logger = logging.WithComponent(logger, "styles")

	if err := os.Mkdir(dir, 0o755); err != nil {
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
		logger.Info("directory already exists, skipping creation", slog.String("dir", dir))
	}

	var written []string
	var errs []error
	for _, name := range Names() {
		data, err := cssFS.ReadFile("css/" + name + ".css")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		dest := filepath.Join(dir, ExportFileName(name))
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			logging.LogError(logger, "failed to write stylesheet", err, slog.String("path", dest))
			errs = append(errs, err)
			continue
		}
		logger.Info("stylesheet written", slog.String("path", dest))
		written = append(written, dest)
	}
	return written, errors.Join(errs...)
}
