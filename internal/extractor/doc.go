// Package extractor runs the per-video subtitle extraction pipeline from
// probe to serialized output.
package extractor
