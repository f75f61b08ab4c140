// Package chunk implements boundary-aware text chunking.
//
// Split slides a fixed-size window across a page's text and backs the cut
// point up to the nearest sentence terminator, falling back to the nearest
// space and only cutting mid-word as a last resort. Consecutive chunks
// overlap so neighbouring chunks share trailing and leading context.
//
// The chunker is a pure function: it performs no I/O and the same input
// always yields byte-identical output.
package chunk
