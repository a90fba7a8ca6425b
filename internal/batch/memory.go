package batch

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"

	"subsnap/internal/logging"
)

type memorySample struct {
	UsedPercent float64
	Used        uint64
	Total       uint64
}

func sampleMemory() (memorySample, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return memorySample{}, err
	}
	return memorySample{UsedPercent: vm.UsedPercent, Used: vm.Used, Total: vm.Total}, nil
}

func overHighWater(sample memorySample, highWaterPercent float64) bool {
	return sample.UsedPercent >= highWaterPercent
}

// cooldownIfPressured pauses between batches when system memory usage crosses
// the configured high-water mark. Process-held memory is returned to the OS
// before sleeping so the pause can actually lower the reading.
func (r *Runner) cooldownIfPressured(ctx context.Context) {
	sample, err := sampleMemory()
	if err != nil {
		r.logger.Warn("memory sample failed", logging.Error(err))
		return
	}
	if !overHighWater(sample, r.cfg.Batch.MemoryHighWaterPercent) {
		return
	}

	cooldown := time.Duration(r.cfg.Batch.CooldownSeconds) * time.Second
	r.logger.Warn("memory high water reached, cooling down",
		logging.Float64("used_percent", sample.UsedPercent),
		logging.String("used", humanize.IBytes(sample.Used)),
		logging.String("total", humanize.IBytes(sample.Total)),
		logging.Duration("cooldown", cooldown))

	debug.FreeOSMemory()

	select {
	case <-time.After(cooldown):
	case <-ctx.Done():
	}
}
