package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateBlueprintPath creates a timestamped blueprint filename inside dir
func GenerateBlueprintPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("blueprint_%s.yaml", timestamp))
}

// FindLatestBlueprint finds the most recently modified blueprint in dir
func FindLatestBlueprint(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read blueprints directory: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}

	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{path: filepath.Join(dir, entry.Name()), modTime: info.ModTime()})
	}

	if len(found) == 0 {
		return "", fmt.Errorf("no blueprint files found in %s", dir)
	}

	// Newest first
	sort.Slice(found, func(i, j int) bool {
		return found[i].modTime.After(found[j].modTime)
	})

	return found[0].path, nil
}
