// Package textutil provides text processing utilities for OCR output cleanup
// and string similarity scoring.
//
// The primary use cases are:
//   - Scrubbing characters that are typical OCR recognition artifacts
//   - Computing a normalized character-level similarity ratio between two
//     strings for near-duplicate caption detection
//
// Ratio is case- and whitespace-sensitive: caption deduplication must treat
// "Hello" and "hello" as distinct detections and let the threshold decide.
package textutil
