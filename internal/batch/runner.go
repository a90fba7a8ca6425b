package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subsnap/internal/config"
	"subsnap/internal/extractor"
	"subsnap/internal/logging"
	"subsnap/internal/ocr"
	"subsnap/internal/queue"
	"subsnap/internal/subtitle"
)

// ErrRunActive indicates another batch run already holds the lock.
var ErrRunActive = errors.New("another batch run is active")

// EngineFactory starts one recognition engine. Each worker calls it once and
// owns the returned engine exclusively.
type EngineFactory func(ctx context.Context) (ocr.Engine, error)

// Runner processes every unprocessed video under a directory with a pool of
// workers, recording per-video outcomes in the queue store.
type Runner struct {
	cfg       *config.Config
	store     *queue.Store
	logger    *slog.Logger
	newEngine EngineFactory
}

// Outcome summarizes a finished run.
type Outcome struct {
	RunID      string
	Discovered int
	Skipped    int
	Summary    queue.Summary
	Elapsed    time.Duration
}

// NewRunner wires a batch runner.
func NewRunner(cfg *config.Config, store *queue.Store, newEngine EngineFactory, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		store:     store,
		logger:    logging.WithComponent(logger, "batch"),
		newEngine: newEngine,
	}
}

// Run discovers videos under root and extracts subtitles for each. Per-video
// failures are recorded and do not abort the run; Run itself fails only on
// setup errors or context cancellation.
func (r *Runner) Run(ctx context.Context, root string) (Outcome, error) {
	started := time.Now()

	format, err := subtitle.ParseFormat(r.cfg.Extraction.OutputFormat)
	if err != nil {
		return Outcome{}, err
	}

	lock := flock.New(r.store.Path() + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return Outcome{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return Outcome{}, ErrRunActive
	}
	defer lock.Unlock()

	videos, skippedExisting, err := Discover(root, r.cfg.Batch.VideoExtensions, format)
	if err != nil {
		return Outcome{}, err
	}

	runID := uuid.NewString()
	outcome := Outcome{RunID: runID, Discovered: len(videos), Skipped: skippedExisting}

	r.logger.Info("run starting",
		logging.String("run_id", runID),
		logging.String("root", root),
		logging.Any("extensions", r.cfg.Batch.VideoExtensions),
		logging.Int("videos", len(videos)),
		logging.Int("skipped_existing", skippedExisting))

	if len(videos) == 0 {
		outcome.Elapsed = time.Since(started)
		return outcome, nil
	}

	items := make([]*queue.Item, 0, len(videos))
	for _, video := range videos {
		item, err := r.store.Add(ctx, runID, video)
		if err != nil {
			return Outcome{}, err
		}
		items = append(items, item)
	}

	if err := r.process(ctx, items); err != nil {
		return Outcome{}, err
	}

	summary, err := r.store.Summarize(ctx, runID)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Summary = summary
	outcome.Elapsed = time.Since(started)

	r.logger.Info("run finished",
		logging.String("run_id", runID),
		logging.Int("completed", summary.Completed),
		logging.Int("no_subtitles", summary.NoSubtitles),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", outcome.Elapsed))
	return outcome, nil
}

// process feeds items to the worker pool in bounded batches with a memory
// check between batches.
func (r *Runner) process(ctx context.Context, items []*queue.Item) error {
	workers := r.cfg.Batch.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan *queue.Item)
	acks := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, jobs, acks)
		}()
	}

	batchSize := r.cfg.Batch.BatchSize
	err := func() error {
		for start := 0; start < len(items); start += batchSize {
			end := min(start+batchSize, len(items))
			batch := items[start:end]

			sent := 0
			for _, item := range batch {
				select {
				case jobs <- item:
					sent++
				case <-ctx.Done():
					for i := 0; i < sent; i++ {
						<-acks
					}
					return ctx.Err()
				}
			}
			for i := 0; i < sent; i++ {
				<-acks
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if end < len(items) {
				r.cooldownIfPressured(ctx)
			}
		}
		return nil
	}()

	close(jobs)
	wg.Wait()
	return err
}

func (r *Runner) worker(ctx context.Context, jobs <-chan *queue.Item, acks chan<- struct{}) {
	engine, engineErr := r.newEngine(ctx)
	var ext *extractor.Extractor
	if engineErr == nil {
		defer engine.Close()
		ext = extractor.New(r.cfg, engine, r.logger)
	}

	for item := range jobs {
		if engineErr != nil {
			r.finishItem(item, queue.StatusFailed, "", 0, fmt.Sprintf("engine start: %v", engineErr))
		} else {
			r.processItem(ctx, ext, item)
		}
		acks <- struct{}{}
	}
}

func (r *Runner) processItem(ctx context.Context, ext *extractor.Extractor, item *queue.Item) {
	item.Status = queue.StatusExtracting
	if err := r.store.Update(ctx, item); err != nil {
		r.logger.Warn("queue update failed", logging.Error(err))
	}

	result, err := ext.Extract(ctx, item.SourcePath)
	switch {
	case err == nil:
		r.finishItem(item, queue.StatusCompleted, result.OutputPath, result.CueCount, "")
	case errors.Is(err, subtitle.ErrNoSubtitles):
		r.finishItem(item, queue.StatusNoSubtitles, "", 0, "")
	default:
		r.logger.Error("extraction failed",
			logging.Int64("item_id", item.ID),
			logging.String("video", item.SourcePath),
			logging.Error(err))
		r.finishItem(item, queue.StatusFailed, "", 0, err.Error())
	}
}

// finishItem persists a terminal status without a caller context so outcomes
// survive cancellation mid-run.
func (r *Runner) finishItem(item *queue.Item, status queue.Status, outputPath string, cueCount int, errorMessage string) {
	item.Status = status
	item.OutputPath = outputPath
	item.CueCount = cueCount
	item.ErrorMessage = errorMessage
	if err := r.store.Update(context.Background(), item); err != nil {
		r.logger.Warn("queue update failed", logging.Error(err))
	}
}
