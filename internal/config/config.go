package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and database location configuration.
type Paths struct {
	LogDir      string `toml:"log_dir"`
	QueueDBPath string `toml:"queue_db_path"`
}

// Extraction contains the consolidation and timing knobs for one video run.
type Extraction struct {
	// SimilarityThreshold is the 0-100 text similarity score at or above
	// which adjacent frame groups are treated as the same caption.
	SimilarityThreshold int `toml:"similarity_threshold"`
	// MaxShowSeconds caps how long a single cue may display.
	MaxShowSeconds int `toml:"max_show_seconds"`
	// CaptureInterval is the sampling interval in seconds; 0 samples every
	// frame.
	CaptureInterval float64 `toml:"capture_interval"`
	TimeStart       string  `toml:"time_start"`
	TimeEnd         string  `toml:"time_end"`
	OutputFormat    string  `toml:"output_format"`
	// ROI restricts OCR to a rectangle: [x, y, width, height].
	ROI       []int   `toml:"roi"`
	Grayscale bool    `toml:"grayscale"`
	Scale     float64 `toml:"scale"`
	// BinarizeThreshold converts frames to black and white at the given
	// luma cutoff; -1 disables binarization.
	BinarizeThreshold int `toml:"binarize_threshold"`
}

// OCR contains settings passed through to the external recognition engine.
type OCR struct {
	Binary          string  `toml:"binary"`
	Language        string  `toml:"language"`
	UseAngleCls     bool    `toml:"use_angle_cls"`
	UseGPU          bool    `toml:"use_gpu"`
	GPUMem          int     `toml:"gpu_mem"`
	DetLimitSideLen int     `toml:"det_limit_side_len"`
	RecBatchNum     int     `toml:"rec_batch_num"`
	CPUThreads      int     `toml:"cpu_threads"`
	DropScore       float64 `toml:"drop_score"`
	// StartupTimeout bounds how long to wait for the engine subprocess to
	// report readiness, in seconds.
	StartupTimeout int `toml:"startup_timeout"`
}

// Batch contains worker pool and flow control settings for directory runs.
type Batch struct {
	// Workers is the pool size; 0 uses the machine's CPU count.
	Workers int `toml:"workers"`
	// BatchSize bounds how many videos are in flight before a memory check.
	BatchSize int `toml:"batch_size"`
	// MemoryHighWaterPercent triggers a cooldown pause between batches when
	// system memory usage exceeds it.
	MemoryHighWaterPercent float64  `toml:"memory_high_water_percent"`
	CooldownSeconds        int      `toml:"cooldown_seconds"`
	VideoExtensions        []string `toml:"video_extensions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subsnap.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Extraction Extraction `toml:"extraction"`
	OCR        OCR        `toml:"ocr"`
	Batch      Batch      `toml:"batch"`
	Logging    Logging    `toml:"logging"`
}

// ExpandPath resolves a leading ~ against the home directory and returns an
// absolute, cleaned path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subsnap/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path and the third reports whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subsnap.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories subsnap writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.QueueDBPath)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to the given path.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// FFmpegBinary returns the ffmpeg executable name used for frame decoding.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for video inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
