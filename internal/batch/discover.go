package batch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"subsnap/internal/subtitle"
)

// Discover walks root for video files by extension, in stable path order.
// Videos whose subtitle output already exists are counted as skipped and not
// returned.
func Discover(root string, extensions []string, format subtitle.Format) ([]string, int, error) {
	extSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = struct{}{}
	}

	var videos []string
	skipped := 0
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := extSet[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		if subtitle.HasOutput(path, format) {
			skipped++
			return nil
		}
		videos = append(videos, path)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(videos)
	return videos, skipped, nil
}
