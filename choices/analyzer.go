package choices

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/figura/internal/textfold"
	"github.com/tsawler/figura/model"
)

// ErrChoiceCountMismatch is returned when the number of producible
// regions differs from the number of choice anchors. Callers must treat
// this as fatal for the question: a partial region set risks pairing a
// diagram with the wrong choice.
var ErrChoiceCountMismatch = errors.New("choice region count does not match choice anchor count")

// AnalyzerConfig holds configuration for choice layout analysis.
type AnalyzerConfig struct {
	// StdevFactor scales the page width into the maximum standard
	// deviation of anchor x-centers for a layout to count as a single
	// vertical column. Default: 0.1.
	StdevFactor float64

	// Margin is the general page/content clearance in pixels. Default: 10.
	Margin float64

	// GridPad is the fixed padding applied to grid regions after
	// clipping, in pixels. Default: 20.
	GridPad float64

	// MinWidth and MinHeight are the per-choice region size floor.
	// Defaults: 30 and 30 (choice diagrams run smaller than prompt
	// diagrams).
	MinWidth  float64
	MinHeight float64

	// Confidence assigned to produced regions. Default: 0.85.
	Confidence float64
}

// DefaultAnalyzerConfig returns sensible default configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		StdevFactor: 0.1,
		Margin:      10.0,
		GridPad:     20.0,
		MinWidth:    30.0,
		MinHeight:   30.0,
		Confidence:  0.85,
	}
}

// Analyzer classifies and partitions answer-choice diagram layouts.
type Analyzer struct {
	config AnalyzerConfig
}

// NewAnalyzer creates an analyzer with default configuration.
func NewAnalyzer() *Analyzer {
	return &Analyzer{config: DefaultAnalyzerConfig()}
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration.
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	return &Analyzer{config: config}
}

// DetectLayout classifies the choice arrangement. Choices stacked in a
// single column have near-identical horizontal centers, so a small
// standard deviation of the anchor x-centers (relative to page width)
// means vertical; anything wider means a grid. Fewer than two anchors
// are trivially vertical.
func (a *Analyzer) DetectLayout(anchors []model.Block, pageWidth float64) model.LayoutMode {
	if len(anchors) < 2 {
		return model.LayoutVertical
	}

	mean := 0.0
	for _, b := range anchors {
		mean += b.BBox.CenterX()
	}
	mean /= float64(len(anchors))

	variance := 0.0
	for _, b := range anchors {
		d := b.BBox.CenterX() - mean
		variance += d * d
	}
	variance /= float64(len(anchors))

	if math.Sqrt(variance) < pageWidth*a.config.StdevFactor {
		return model.LayoutVertical
	}
	return model.LayoutGrid
}

// ComputeRegions partitions the page into one region per choice anchor
// under the given layout mode. labels are stray diagram labels to fold
// into the owning choice; protected are blocks a region must stay clear
// of (question prose, long answer text). The result is ordered by
// (top edge, left edge).
//
// Exactly len(anchors) regions are returned, or an error wrapping
// ErrChoiceCountMismatch.
func (a *Analyzer) ComputeRegions(anchors, labels, protected []model.Block, page *model.Page, mode model.LayoutMode) ([]model.Region, error) {
	if len(anchors) == 0 {
		return nil, nil
	}

	var regions []model.Region
	if mode == model.LayoutVertical {
		regions = a.verticalRegions(anchors, labels, protected, page)
	} else {
		regions = a.gridRegions(anchors, labels, protected, page)
	}

	if len(regions) != len(anchors) {
		return nil, fmt.Errorf("%w: %d anchors, %d regions (%s layout)",
			ErrChoiceCountMismatch, len(anchors), len(regions), mode)
	}

	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].BBox.Y0 != regions[j].BBox.Y0 {
			return regions[i].BBox.Y0 < regions[j].BBox.Y0
		}
		return regions[i].BBox.X0 < regions[j].BBox.X0
	})
	return regions, nil
}

// sortAnchors returns the anchors in reading order with id tie-breaks.
func sortAnchors(anchors []model.Block) []model.Block {
	sorted := make([]model.Block, len(anchors))
	copy(sorted, anchors)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y0 != sorted[j].BBox.Y0 {
			return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
		}
		if sorted[i].BBox.X0 != sorted[j].BBox.X0 {
			return sorted[i].BBox.X0 < sorted[j].BBox.X0
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// verticalRegions slices the page into horizontal bands, one per
// anchor: each band runs from its anchor's top edge down to the next
// anchor's top edge (minus margin). The last band extends to the
// topmost protected block below it, or to the page bottom.
func (a *Analyzer) verticalRegions(anchors, labels, protected []model.Block, page *model.Page) []model.Region {
	sorted := sortAnchors(anchors)
	margin := a.config.Margin

	var regions []model.Region
	for i, anchor := range sorted {
		top := anchor.BBox.Y0

		var bottom float64
		if i < len(sorted)-1 {
			bottom = sorted[i+1].BBox.Y0 - margin
		} else {
			bottom = page.Height - margin
			// A footer-like block below the last anchor pulls the band up.
			for _, b := range protected {
				if b.BBox.Y0 > anchor.BBox.Y1 && b.BBox.Y0-margin < bottom {
					bottom = b.BBox.Y0 - margin
				}
			}
		}

		box := model.BBox{
			X0: margin,
			Y0: top,
			X1: page.Width - margin,
			Y1: bottom,
		}
		if !box.MeetsMinSize(a.config.MinWidth, a.config.MinHeight) {
			continue
		}

		regions = append(regions, a.newRegion(anchor, box, a.labelsWithin(box, labels)))
	}
	return regions
}

// gridRegions partitions a multi-column arrangement. The anchor
// x-centers are grouped into columns; each choice region is the union
// of its anchor and the labels assigned to its quadrant, clipped
// against the question text above, the nearest block below, and the
// sibling column midlines, then padded within those limits.
func (a *Analyzer) gridRegions(anchors, labels, protected []model.Block, page *model.Page) []model.Region {
	sorted := sortAnchors(anchors)
	margin := a.config.Margin

	assigned := a.assignLabels(sorted, labels, page)
	columns := groupColumns(sorted, page.Width*a.config.StdevFactor)

	var regions []model.Region
	for _, anchor := range sorted {
		members := assigned[anchor.ID]
		content := anchor.BBox
		for _, lb := range members {
			content = content.Union(lb.BBox)
		}

		limit := model.BBox{
			X0: margin,
			Y0: margin,
			X1: page.Width - margin,
			Y1: page.Height - margin,
		}

		// Top: bottom edge of the nearest protected block ending above.
		for _, b := range protected {
			if b.BBox.Y1 <= anchor.BBox.Y0 && b.BBox.HSpanOverlaps(content) {
				if edge := b.BBox.Y1 + margin; edge > limit.Y0 {
					limit.Y0 = edge
				}
			}
		}

		// Bottom: top edge of the nearest block (protected or sibling
		// anchor) starting below.
		below := make([]model.BBox, 0, len(protected)+len(sorted))
		for _, b := range protected {
			below = append(below, b.BBox)
		}
		for _, other := range sorted {
			if other.ID != anchor.ID {
				below = append(below, other.BBox)
			}
		}
		for _, box := range below {
			if box.Y0 >= content.Y1 && box.HSpanOverlaps(content) {
				if edge := box.Y0 - margin; edge < limit.Y1 {
					limit.Y1 = edge
				}
			}
		}

		// Left/right: midlines toward the neighboring columns. For a
		// two-column grid this reproduces the classic left/right column
		// split; for wider grids each column clips symmetrically.
		left, right := columnBounds(columns, anchor)
		if left > limit.X0 {
			limit.X0 = left
		}
		if right < limit.X1 {
			limit.X1 = right
		}

		box := content.Clamp(limit)
		// Pad only after clipping: the padding never crosses a clip limit.
		box = box.Expand(a.config.GridPad).Clamp(limit)
		if !box.MeetsMinSize(a.config.MinWidth, a.config.MinHeight) {
			continue
		}

		regions = append(regions, a.newRegion(anchor, box, members))
	}
	return regions
}

func (a *Analyzer) newRegion(anchor model.Block, box model.BBox, members []model.Block) model.Region {
	ids := model.NewBlockIDSet(anchor)
	for _, m := range members {
		ids.Add(m.ID)
	}
	return model.Region{
		Kind:           model.ChoiceVisual,
		BBox:           box,
		MemberBlockIDs: ids,
		ChoiceLetter:   textfold.FirstAlnum(anchor.Text),
		Confidence:     a.config.Confidence,
	}
}

// labelsWithin returns the labels whose center falls inside box, for
// membership bookkeeping in vertical bands.
func (a *Analyzer) labelsWithin(box model.BBox, labels []model.Block) []model.Block {
	var out []model.Block
	for _, lb := range labels {
		cx, cy := lb.BBox.CenterX(), lb.BBox.CenterY()
		if cx >= box.X0 && cx <= box.X1 && cy >= box.Y0 && cy <= box.Y1 {
			out = append(out, lb)
		}
	}
	return out
}

// assignLabels maps each label block to the anchor owning the page
// quadrant containing the label's center. Quadrants are split at the
// medians of the anchor centers; when a quadrant holds more than one
// anchor the nearest one (by center distance, id tie-break) wins.
func (a *Analyzer) assignLabels(anchors, labels []model.Block, page *model.Page) map[model.BlockID][]model.Block {
	assigned := make(map[model.BlockID][]model.Block, len(anchors))
	if len(labels) == 0 {
		return assigned
	}

	midX := medianOf(anchors, func(b model.Block) float64 { return b.BBox.CenterX() })
	midY := medianOf(anchors, func(b model.Block) float64 { return b.BBox.CenterY() })

	quadrant := func(x, y float64) int {
		q := 0
		if x >= midX {
			q |= 1
		}
		if y >= midY {
			q |= 2
		}
		return q
	}

	for _, lb := range labels {
		lq := quadrant(lb.BBox.CenterX(), lb.BBox.CenterY())

		var owner *model.Block
		best := math.MaxFloat64
		for i := range anchors {
			anchor := &anchors[i]
			if quadrant(anchor.BBox.CenterX(), anchor.BBox.CenterY()) != lq {
				continue
			}
			dx := anchor.BBox.CenterX() - lb.BBox.CenterX()
			dy := anchor.BBox.CenterY() - lb.BBox.CenterY()
			d := dx*dx + dy*dy
			if d < best || (d == best && owner != nil && anchor.ID < owner.ID) {
				owner = anchor
				best = d
			}
		}
		if owner != nil {
			assigned[owner.ID] = append(assigned[owner.ID], lb)
		}
	}
	return assigned
}

func medianOf(blocks []model.Block, value func(model.Block) float64) float64 {
	vals := make([]float64, len(blocks))
	for i, b := range blocks {
		vals[i] = value(b)
	}
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// column is a group of anchors sharing a horizontal band of x-centers.
type column struct {
	center float64
	ids    model.BlockIDSet
}

// groupColumns clusters anchors into columns by x-center, using tol as
// the maximum intra-column center spread.
func groupColumns(anchors []model.Block, tol float64) []column {
	if len(anchors) == 0 {
		return nil
	}
	byX := make([]model.Block, len(anchors))
	copy(byX, anchors)
	sort.SliceStable(byX, func(i, j int) bool {
		if byX[i].BBox.CenterX() != byX[j].BBox.CenterX() {
			return byX[i].BBox.CenterX() < byX[j].BBox.CenterX()
		}
		return byX[i].ID < byX[j].ID
	})

	var cols []column
	cur := column{center: byX[0].BBox.CenterX(), ids: model.NewBlockIDSet(byX[0])}
	sum, count := byX[0].BBox.CenterX(), 1.0
	for _, b := range byX[1:] {
		cx := b.BBox.CenterX()
		if cx-cur.center > tol {
			cols = append(cols, cur)
			cur = column{center: cx, ids: model.NewBlockIDSet(b)}
			sum, count = cx, 1.0
			continue
		}
		cur.ids.Add(b.ID)
		sum += cx
		count++
		cur.center = sum / count
	}
	cols = append(cols, cur)
	return cols
}

// columnBounds returns the left and right clip limits for the anchor's
// column: the midlines toward the adjacent columns, or the page's
// unconstrained extent when there is no neighbor on that side.
func columnBounds(cols []column, anchor model.Block) (left, right float64) {
	left = -math.MaxFloat64
	right = math.MaxFloat64
	for i, col := range cols {
		if !col.ids.Has(anchor.ID) {
			continue
		}
		if i > 0 {
			left = (cols[i-1].center + col.center) / 2
		}
		if i < len(cols)-1 {
			right = (col.center + cols[i+1].center) / 2
		}
		return left, right
	}
	return left, right
}
