// Package batch extracts subtitles from every video under a directory with a
// worker pool, bounded batches, and memory-pressure cooldowns.
package batch
