package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExtraction(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateExtraction() error {
	e := c.Extraction
	if e.SimilarityThreshold < 0 || e.SimilarityThreshold > 100 {
		return errors.New("extraction.similarity_threshold must be between 0 and 100")
	}
	if e.MaxShowSeconds <= 0 {
		return errors.New("extraction.max_show_seconds must be positive")
	}
	if e.CaptureInterval < 0 {
		return errors.New("extraction.capture_interval must not be negative")
	}
	switch e.OutputFormat {
	case "lrc", "txt":
	default:
		return fmt.Errorf("extraction.output_format must be lrc or txt, got %q", e.OutputFormat)
	}
	if len(e.ROI) != 0 && len(e.ROI) != 4 {
		return errors.New("extraction.roi must be [x, y, width, height]")
	}
	if len(e.ROI) == 4 {
		if e.ROI[0] < 0 || e.ROI[1] < 0 {
			return errors.New("extraction.roi origin must not be negative")
		}
		if e.ROI[2] <= 0 || e.ROI[3] <= 0 {
			return errors.New("extraction.roi width and height must be positive")
		}
	}
	if e.Scale <= 0 {
		return errors.New("extraction.scale must be positive")
	}
	if e.BinarizeThreshold < -1 || e.BinarizeThreshold > 255 {
		return errors.New("extraction.binarize_threshold must be -1 or between 0 and 255")
	}
	return nil
}

func (c *Config) validateOCR() error {
	if c.OCR.DropScore < 0 || c.OCR.DropScore > 1 {
		return errors.New("ocr.drop_score must be between 0 and 1")
	}
	for name, value := range map[string]int{
		"ocr.gpu_mem":            c.OCR.GPUMem,
		"ocr.det_limit_side_len": c.OCR.DetLimitSideLen,
		"ocr.rec_batch_num":      c.OCR.RecBatchNum,
		"ocr.cpu_threads":        c.OCR.CPUThreads,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must not be negative")
	}
	if c.Batch.MemoryHighWaterPercent > 100 {
		return errors.New("batch.memory_high_water_percent must not exceed 100")
	}
	if len(c.Batch.VideoExtensions) == 0 {
		return errors.New("batch.video_extensions must not be empty")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
