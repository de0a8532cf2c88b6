package figura

// Options holds every threshold the engine uses. All of them were
// chosen empirically on scanned exam corpora; none is hardcoded inside
// detection logic, so the accuracy owner can retune any of them per
// call.
type Options struct {
	// gapThreshold is the maximum vertical whitespace between label
	// blocks in one cluster, in pixels.
	gapThreshold float64

	// margin is the general clearance from protected blocks and page
	// edges, in pixels.
	margin float64

	// minRegionWidth and minRegionHeight floor prompt regions.
	minRegionWidth  float64
	minRegionHeight float64

	// minChoiceWidth and minChoiceHeight floor per-choice regions,
	// which run smaller than prompt diagrams.
	minChoiceWidth  float64
	minChoiceHeight float64

	// overlapThreshold is the own-area overlap fraction above which a
	// region is dropped as a duplicate.
	overlapThreshold float64

	// stdevFactor scales page width into the vertical-vs-grid layout
	// decision threshold.
	stdevFactor float64

	// minGapStrict and minGapFlexible are the gap-fallback minimum
	// sizes; flexibleGaps selects which one applies.
	minGapStrict   float64
	minGapFlexible float64
	flexibleGaps   bool

	// gridPad is the padding applied to grid choice regions after
	// clipping.
	gridPad float64

	// maskPad and maskMaxFraction control letter mask sizing.
	maskPad         float64
	maskMaxFraction float64

	// longTextRunes is the folded-rune count at which an answer-choice
	// block counts as prose to protect rather than a short anchor.
	longTextRunes int
}

// defaultOptions returns the default engine thresholds.
func defaultOptions() Options {
	return Options{
		gapThreshold:     20.0,
		margin:           10.0,
		minRegionWidth:   50.0,
		minRegionHeight:  30.0,
		minChoiceWidth:   30.0,
		minChoiceHeight:  30.0,
		overlapThreshold: 0.8,
		stdevFactor:      0.1,
		minGapStrict:     100.0,
		minGapFlexible:   30.0,
		flexibleGaps:     false,
		gridPad:          20.0,
		maskPad:          5.0,
		maskMaxFraction:  0.2,
		longTextRunes:    25,
	}
}

// minGap returns the active gap-fallback minimum.
func (o Options) minGap() float64 {
	if o.flexibleGaps {
		return o.minGapFlexible
	}
	return o.minGapStrict
}

// snapshot records the active thresholds so a result can report what
// produced it.
func (o Options) snapshot() map[string]float64 {
	flexible := 0.0
	if o.flexibleGaps {
		flexible = 1.0
	}
	return map[string]float64{
		"gap_threshold":     o.gapThreshold,
		"margin":            o.margin,
		"min_region_width":  o.minRegionWidth,
		"min_region_height": o.minRegionHeight,
		"min_choice_width":  o.minChoiceWidth,
		"min_choice_height": o.minChoiceHeight,
		"overlap_threshold": o.overlapThreshold,
		"stdev_factor":      o.stdevFactor,
		"min_gap":           o.minGap(),
		"flexible_gaps":     flexible,
		"grid_pad":          o.gridPad,
		"mask_pad":          o.maskPad,
		"mask_max_fraction": o.maskMaxFraction,
		"long_text_runes":   float64(o.longTextRunes),
	}
}
