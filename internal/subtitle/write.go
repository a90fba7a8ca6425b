package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath returns the subtitle file location for a video: an "output"
// directory beside the video, named after the video basename with the
// format's extension.
func OutputPath(videoPath string, format Format) string {
	base := filepath.Base(videoPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(videoPath), "output", name+"."+format.Extension())
}

// HasOutput reports whether a subtitle file already exists for the video.
func HasOutput(videoPath string, format Format) bool {
	info, err := os.Stat(OutputPath(videoPath, format))
	return err == nil && !info.IsDir()
}

// WriteFile renders the cues and writes them to the video's output path.
// The content lands via a temp file and rename so a failure never leaves a
// partial subtitle file behind. Existing files are overwritten.
func WriteFile(videoPath string, cues []Cue, format Format) (string, error) {
	content, err := Render(cues, format)
	if err != nil {
		return "", err
	}

	target := OutputPath(videoPath, format)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-")
	if err != nil {
		return "", fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write subtitle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close subtitle: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("finalize subtitle: %w", err)
	}
	return target, nil
}
