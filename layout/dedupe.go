package layout

import (
	"github.com/tsawler/figura/model"
)

// DedupeConfig holds configuration for overlap deduplication.
type DedupeConfig struct {
	// Threshold is the fraction of a region's own area that must be
	// covered by an already-kept region for the region to be dropped.
	// Default: 0.8.
	Threshold float64
}

// DefaultDedupeConfig returns sensible default configuration.
func DefaultDedupeConfig() DedupeConfig {
	return DedupeConfig{
		Threshold: 0.8,
	}
}

// Deduper removes near-duplicate regions: candidates mostly covered by
// a region that came earlier in the input order.
type Deduper struct {
	config DedupeConfig
}

// NewDeduper creates a deduper with default configuration.
func NewDeduper() *Deduper {
	return &Deduper{config: DefaultDedupeConfig()}
}

// NewDeduperWithConfig creates a deduper with custom configuration.
func NewDeduperWithConfig(config DedupeConfig) *Deduper {
	return &Deduper{config: config}
}

// Dedupe walks regions in input order and keeps each one unless its
// intersection with some already-kept region, divided by its own area,
// exceeds the threshold. Deterministic for a stable input order, and
// idempotent on its own output.
func (d *Deduper) Dedupe(regions []model.Region) []model.Region {
	kept := make([]model.Region, 0, len(regions))
	for _, r := range regions {
		dup := false
		for _, k := range kept {
			if r.BBox.OverlapRatio(k.BBox) > d.config.Threshold {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, r)
		}
	}
	return kept
}
