package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtraction()
	c.normalizeOCR()
	c.normalizeBatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.QueueDBPath) == "" {
		c.Paths.QueueDBPath = defaultQueueDBPath
	}
	if c.Paths.QueueDBPath, err = expandPath(c.Paths.QueueDBPath); err != nil {
		return fmt.Errorf("paths.queue_db_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeExtraction() {
	c.Extraction.TimeStart = strings.TrimSpace(c.Extraction.TimeStart)
	c.Extraction.TimeEnd = strings.TrimSpace(c.Extraction.TimeEnd)
	c.Extraction.OutputFormat = strings.ToLower(strings.TrimSpace(c.Extraction.OutputFormat))
	if c.Extraction.OutputFormat == "" {
		c.Extraction.OutputFormat = defaultOutputFormat
	}
	if c.Extraction.Scale == 0 {
		c.Extraction.Scale = defaultScale
	}
}

func (c *Config) normalizeOCR() {
	c.OCR.Binary = strings.TrimSpace(c.OCR.Binary)
	if c.OCR.Binary == "" {
		c.OCR.Binary = defaultOCRBinary
	}
	c.OCR.Language = strings.TrimSpace(c.OCR.Language)
	if c.OCR.Language == "" {
		c.OCR.Language = defaultOCRLanguage
	}
	if c.OCR.StartupTimeout <= 0 {
		c.OCR.StartupTimeout = defaultOCRStartupTimeout
	}
}

func (c *Config) normalizeBatch() {
	if c.Batch.BatchSize <= 0 {
		c.Batch.BatchSize = defaultBatchSize
	}
	if c.Batch.MemoryHighWaterPercent <= 0 {
		c.Batch.MemoryHighWaterPercent = defaultMemoryHighWater
	}
	if c.Batch.CooldownSeconds <= 0 {
		c.Batch.CooldownSeconds = defaultCooldownSeconds
	}
	if len(c.Batch.VideoExtensions) == 0 {
		c.Batch.VideoExtensions = Default().Batch.VideoExtensions
	}
	normalized := make([]string, 0, len(c.Batch.VideoExtensions))
	for _, ext := range c.Batch.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Batch.VideoExtensions = normalized
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
