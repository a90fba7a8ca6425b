package config

const (
	defaultLogDir              = "~/.local/share/subsnap/logs"
	defaultQueueDBPath         = "~/.local/share/subsnap/queue.db"
	defaultSimilarityThreshold = 70
	defaultMaxShowSeconds      = 10
	defaultCaptureInterval     = 0.5
	defaultOutputFormat        = "lrc"
	defaultScale               = 1.0
	defaultBinarizeThreshold   = -1
	defaultOCRBinary           = "paddleocr"
	defaultOCRLanguage         = "ch"
	defaultOCRGPUMem           = 1024
	defaultOCRDetLimitSideLen  = 1920
	defaultOCRRecBatchNum      = 16
	defaultOCRCPUThreads       = 24
	defaultOCRDropScore        = 0.5
	defaultOCRStartupTimeout   = 120
	defaultBatchSize           = 100
	defaultMemoryHighWater     = 90.0
	defaultCooldownSeconds     = 20
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:      defaultLogDir,
			QueueDBPath: defaultQueueDBPath,
		},
		Extraction: Extraction{
			SimilarityThreshold: defaultSimilarityThreshold,
			MaxShowSeconds:      defaultMaxShowSeconds,
			CaptureInterval:     defaultCaptureInterval,
			OutputFormat:        defaultOutputFormat,
			Scale:               defaultScale,
			BinarizeThreshold:   defaultBinarizeThreshold,
		},
		OCR: OCR{
			Binary:          defaultOCRBinary,
			Language:        defaultOCRLanguage,
			GPUMem:          defaultOCRGPUMem,
			DetLimitSideLen: defaultOCRDetLimitSideLen,
			RecBatchNum:     defaultOCRRecBatchNum,
			CPUThreads:      defaultOCRCPUThreads,
			DropScore:       defaultOCRDropScore,
			StartupTimeout:  defaultOCRStartupTimeout,
		},
		Batch: Batch{
			BatchSize:              defaultBatchSize,
			MemoryHighWaterPercent: defaultMemoryHighWater,
			CooldownSeconds:        defaultCooldownSeconds,
			VideoExtensions:        []string{".mp4", ".mkv", ".avi", ".mov", ".webm", ".ts"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
