package layout

import (
	"sort"

	"github.com/tsawler/figura/model"
)

// GapKind identifies where on the page a candidate gap sits.
type GapKind int

const (
	// GapTop is the gap between the page top and the first protected block.
	GapTop GapKind = iota
	// GapBetween is a gap between two consecutive protected blocks.
	GapBetween
	// GapBottom is the gap between the last protected block and the
	// effective page bottom.
	GapBottom
)

func (k GapKind) String() string {
	switch k {
	case GapTop:
		return "top"
	case GapBetween:
		return "between"
	case GapBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// GapAxis identifies the sweep axis a gap was found on.
type GapAxis int

const (
	// AxisVertical means the gap is a horizontal band found by sweeping
	// down the page. This is the only axis the detector currently sweeps.
	AxisVertical GapAxis = iota
	// AxisHorizontal means the gap is a vertical band.
	AxisHorizontal
)

// Gap is a candidate empty band between protected blocks.
type Gap struct {
	// Start and End bound the gap on the sweep axis (Y coordinates for
	// AxisVertical).
	Start float64
	End   float64

	// Size is End - Start.
	Size float64

	// Axis is the sweep axis the gap was found on.
	Axis GapAxis

	// Kind determines the selection priority.
	Kind GapKind

	// Priority is the fixed selection priority: between > top > bottom.
	Priority int

	// X0 and X1 bound the gap on the perpendicular axis, after trimming
	// against blocks whose span intersects the gap.
	X0 float64
	X1 float64
}

// BBox returns the gap as a page rectangle.
func (g Gap) BBox() model.BBox {
	return model.BBox{X0: g.X0, Y0: g.Start, X1: g.X1, Y1: g.End}
}

// GapConfig holds configuration for gap detection.
type GapConfig struct {
	// MinGap is the minimum gap size, in pixels, for a candidate to be
	// kept. Default: 100 (strict full-page fallback). Flexible mode
	// uses 30.
	MinGap float64

	// Margin is the page margin in pixels.
	Margin float64
}

// DefaultGapConfig returns the strict full-page fallback configuration.
func DefaultGapConfig() GapConfig {
	return GapConfig{
		MinGap: 100.0,
		Margin: 10.0,
	}
}

// FlexibleGapConfig returns the relaxed configuration used when the
// caller prefers a smaller gap over no region at all.
func FlexibleGapConfig() GapConfig {
	return GapConfig{
		MinGap: 30.0,
		Margin: 10.0,
	}
}

// GapDetector finds the best empty horizontal band between protected
// blocks. It is the fallback strategy when no explicit label blocks
// anchor a diagram.
type GapDetector struct {
	config GapConfig
}

// NewGapDetector creates a detector with the strict default configuration.
func NewGapDetector() *GapDetector {
	return &GapDetector{config: DefaultGapConfig()}
}

// NewGapDetectorWithConfig creates a detector with custom configuration.
func NewGapDetectorWithConfig(config GapConfig) *GapDetector {
	return &GapDetector{config: config}
}

// gapPriority returns the fixed selection priority for a gap kind.
func gapPriority(kind GapKind) int {
	switch kind {
	case GapBetween:
		return 3
	case GapTop:
		return 2
	default:
		return 1
	}
}

// FindGaps returns every candidate gap of at least MinGap pixels around
// and between the avoid blocks. The others blocks do not define gaps
// but pull the effective page bottom upward (footers below the main
// block set) and later trim the chosen gap's horizontal extent.
//
// An empty result means no usable gap exists; callers must treat that
// as "no region found", not as an error.
func (gd *GapDetector) FindGaps(avoid, others []model.Block, page *model.Page) []Gap {
	if len(avoid) == 0 {
		return nil
	}

	sorted := make([]model.Block, len(avoid))
	copy(sorted, avoid)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y0 != sorted[j].BBox.Y0 {
			return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
		}
		return sorted[i].ID < sorted[j].ID
	})

	margin := gd.config.Margin
	var gaps []Gap

	add := func(kind GapKind, start, end float64) {
		size := end - start
		if size < gd.config.MinGap {
			return
		}
		gaps = append(gaps, Gap{
			Start:    start,
			End:      end,
			Size:     size,
			Axis:     AxisVertical,
			Kind:     kind,
			Priority: gapPriority(kind),
			X0:       margin,
			X1:       page.Width - margin,
		})
	}

	// Top gap: page top down to the first block.
	if first := sorted[0]; first.BBox.Y0 > margin {
		add(GapTop, margin, first.BBox.Y0)
	}

	// Gaps between consecutive blocks. The running maximum bottom edge
	// guards against blocks nested vertically inside earlier blocks.
	prevBottom := sorted[0].BBox.Y1
	for _, b := range sorted[1:] {
		if b.BBox.Y0 > prevBottom {
			add(GapBetween, prevBottom, b.BBox.Y0)
		}
		if b.BBox.Y1 > prevBottom {
			prevBottom = b.BBox.Y1
		}
	}

	// Bottom gap: last block down to the effective bottom. Any other
	// block strictly below the avoid set (typically a footer) pulls the
	// effective bottom up to its top edge.
	effBottom := page.Height - margin
	for _, b := range others {
		if b.BBox.Y0 > prevBottom && b.BBox.Y0-margin < effBottom {
			effBottom = b.BBox.Y0 - margin
		}
	}
	if effBottom > prevBottom {
		add(GapBottom, prevBottom, effBottom)
	}

	return gaps
}

// Best selects the preferred gap: highest priority first
// (between > top > bottom), then largest, then topmost for a stable
// tie-break. The chosen gap's horizontal extent is trimmed past any of
// the given blocks whose vertical span intrudes into it. Returns nil
// when no candidate survives.
func (gd *GapDetector) Best(gaps []Gap, trimAgainst []model.Block) *Gap {
	if len(gaps) == 0 {
		return nil
	}

	sorted := make([]Gap, len(gaps))
	copy(sorted, gaps)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		if sorted[i].Size != sorted[j].Size {
			return sorted[i].Size > sorted[j].Size
		}
		return sorted[i].Start < sorted[j].Start
	})

	best := sorted[0]
	gd.trimHorizontal(&best, trimAgainst)
	if best.X1 <= best.X0 {
		return nil
	}
	return &best
}

// trimHorizontal clips the gap's horizontal extent to exclude any block
// whose vertical span intersects the gap. A block left of the gap's
// center pushes the left edge right; a block right of center pushes the
// right edge left.
func (gd *GapDetector) trimHorizontal(gap *Gap, blocks []model.Block) {
	band := gap.BBox()
	centerX := band.CenterX()
	for _, b := range blocks {
		if !b.BBox.VSpanOverlaps(band) {
			continue
		}
		if b.BBox.CenterX() <= centerX {
			if edge := b.BBox.X1 + gd.config.Margin; edge > gap.X0 {
				gap.X0 = edge
			}
		} else {
			if edge := b.BBox.X0 - gd.config.Margin; edge < gap.X1 {
				gap.X1 = edge
			}
		}
	}
}
