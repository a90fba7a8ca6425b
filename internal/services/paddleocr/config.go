package paddleocr

import (
	"strconv"
	"time"

	"subsnap/internal/config"
)

// Config carries the engine tuning parameters. Values pass through to the
// helper process unchanged.
type Config struct {
	Binary          string
	Language        string
	UseAngleCls     bool
	UseGPU          bool
	GPUMem          int
	DetLimitSideLen int
	RecBatchNum     int
	CPUThreads      int
	DropScore       float64
	StartupTimeout  time.Duration
}

// ConfigFromApp maps the application OCR section onto an engine config.
func ConfigFromApp(cfg *config.Config) Config {
	return Config{
		Binary:          cfg.OCR.Binary,
		Language:        cfg.OCR.Language,
		UseAngleCls:     cfg.OCR.UseAngleCls,
		UseGPU:          cfg.OCR.UseGPU,
		GPUMem:          cfg.OCR.GPUMem,
		DetLimitSideLen: cfg.OCR.DetLimitSideLen,
		RecBatchNum:     cfg.OCR.RecBatchNum,
		CPUThreads:      cfg.OCR.CPUThreads,
		DropScore:       cfg.OCR.DropScore,
		StartupTimeout:  time.Duration(cfg.OCR.StartupTimeout) * time.Second,
	}
}

func (c Config) args() []string {
	args := []string{
		"--serve",
		"--lang", c.Language,
		"--det_limit_side_len", strconv.Itoa(c.DetLimitSideLen),
		"--rec_batch_num", strconv.Itoa(c.RecBatchNum),
		"--cpu_threads", strconv.Itoa(c.CPUThreads),
		"--drop_score", strconv.FormatFloat(c.DropScore, 'f', -1, 64),
	}
	if c.UseAngleCls {
		args = append(args, "--use_angle_cls")
	}
	if c.UseGPU {
		args = append(args, "--use_gpu", "--gpu_mem", strconv.Itoa(c.GPUMem))
	}
	return args
}
