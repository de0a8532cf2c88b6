// Package layout provides the geometric detectors of the segmentation
// engine: vertical-gap clustering of label blocks, empty-gap detection
// between protected blocks, boundary resolution of candidate regions
// against protected neighbors and page edges, the expand/shrink bounding
// box refiner, and overlap deduplication of produced regions.
//
// Every detector is pure and deterministic: identical inputs always
// yield identical outputs, with stable block-id tie-breaks on all sorts.
package layout
