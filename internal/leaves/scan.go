// Package leaves lists the leaf files of an index directory with their sizes.
package leaves

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ba0f3/leafstat/internal/percentile"
)

// Scan returns every regular file under root matching pattern, as items named
// by their slash-separated path relative to root. Items are in lexical order.
// Files that cannot be stat'ed are logged and skipped.
func Scan(root, pattern string, log *slog.Logger) ([]percentile.Item, error) {
	if log == nil {
		log = slog.Default()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("leaves dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("leaves dir: %s is not a directory", root)
	}

	fsys := os.DirFS(root)
	files, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	sort.Strings(files)

	items := make([]percentile.Item, 0, len(files))
	for _, relPath := range files {
		fi, err := fs.Stat(fsys, relPath)
		if err != nil {
			log.Warn("stat leaf failed", "path", relPath, "error", err)
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		items = append(items, percentile.Item{Name: relPath, Size: fi.Size()})
	}

	log.Debug("scanned leaves", "root", root, "pattern", pattern, "matched", len(files), "files", len(items))
	return items, nil
}

// TotalSize sums the sizes of items.
func TotalSize(items []percentile.Item) int64 {
	var total int64
	for _, it := range items {
		total += it.Size
	}
	return total
}
