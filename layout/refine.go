package layout

import (
	"sort"

	"github.com/tsawler/figura/model"
)

// RefineConfig holds configuration for the bounding box refiner.
type RefineConfig struct {
	// Margin is the clearance kept from excluded blocks. Default: 10.
	Margin float64

	// MinWidth and MinHeight are the size floor below which the shrink
	// pass stops trimming. Defaults: 50 and 30.
	MinWidth  float64
	MinHeight float64

	// ExcludedCategories are the block categories a region must not
	// swallow. Defaults: question_text and answer_choice.
	ExcludedCategories []model.Category
}

// DefaultRefineConfig returns sensible default configuration.
func DefaultRefineConfig() RefineConfig {
	return RefineConfig{
		Margin:    10.0,
		MinWidth:  50.0,
		MinHeight: 30.0,
		ExcludedCategories: []model.Category{
			model.CategoryQuestionText,
			model.CategoryAnswerChoice,
		},
	}
}

// Refiner runs the two deterministic refinement passes over a seed box:
// expansion outward to natural boundaries, then shrinking inward away
// from any residual excluded text. Both passes are pure coordinate
// arithmetic.
type Refiner struct {
	config RefineConfig
}

// NewRefiner creates a refiner with default configuration.
func NewRefiner() *Refiner {
	return &Refiner{config: DefaultRefineConfig()}
}

// NewRefinerWithConfig creates a refiner with custom configuration.
func NewRefinerWithConfig(config RefineConfig) *Refiner {
	return &Refiner{config: config}
}

func (r *Refiner) excluded(b model.Block) bool {
	for _, c := range r.config.ExcludedCategories {
		if b.Category == c {
			return true
		}
	}
	return false
}

// ExpandToBoundaries grows each edge of bbox outward until the first
// excluded block whose perpendicular span overlaps the box, or the page
// edge when none bounds it. Blocks in transparent (labels belonging to
// the same visual) never stop the expansion.
func (r *Refiner) ExpandToBoundaries(bbox model.BBox, blocks []model.Block, page *model.Page, transparent model.BlockIDSet) model.BBox {
	var avoid []model.Block
	for _, b := range blocks {
		if r.excluded(b) {
			avoid = append(avoid, b)
		}
	}
	expanded := resolveEdges(bbox, avoid, page, r.config.Margin, transparent).BBox()

	// Expansion only ever grows the box; a nearby excluded block can
	// constrain an edge to inside the seed, in which case the seed wins.
	return expanded.Union(bbox)
}

// ShrinkAwayFromText trims bbox inward while it still overlaps an
// excluded block, always taking the cheapest trim (the edge losing the
// least area). Exempt blocks, such as the anchoring choice label, are
// ignored. Trimming stops at the minimum-size floor; if overlap remains
// at the floor the best-effort box is returned with degraded=true so
// the caller can surface it instead of presenting the box as clean.
func (r *Refiner) ShrinkAwayFromText(bbox model.BBox, blocks []model.Block, page *model.Page, exempt model.BlockIDSet) (model.BBox, bool) {
	var avoid []model.Block
	for _, b := range blocks {
		if r.excluded(b) && !exempt.Has(b.ID) {
			avoid = append(avoid, b)
		}
	}

	box := bbox
	// Each iteration removes at least one overlapping block or gives up,
	// so the pass terminates.
	for iter := 0; iter <= len(avoid); iter++ {
		offender, ok := r.worstOverlap(box, avoid)
		if !ok {
			return box, false
		}
		trimmed, ok := r.trimEdge(box, offender.BBox)
		if !ok {
			return box, true
		}
		box = trimmed
	}
	return box, r.overlapsAny(box, avoid)
}

// worstOverlap returns the excluded block with the largest intersection
// area with box, with the block id as a stable tie-break.
func (r *Refiner) worstOverlap(box model.BBox, avoid []model.Block) (model.Block, bool) {
	candidates := make([]model.Block, 0, len(avoid))
	for _, b := range avoid {
		if box.Intersects(b.BBox) {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return model.Block{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ai := box.Intersection(candidates[i].BBox).Area()
		aj := box.Intersection(candidates[j].BBox).Area()
		if ai != aj {
			return ai > aj
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0], true
}

// trimEdge removes the overlap between box and offender by moving one
// edge of box just past the offender (plus margin), choosing the edge
// whose trim keeps the most area while staying at or above the size
// floor. Returns false when no trim can clear the overlap without
// dropping below the floor.
func (r *Refiner) trimEdge(box, offender model.BBox) (model.BBox, bool) {
	m := r.config.Margin
	candidates := []model.BBox{
		{X0: box.X0, Y0: box.Y0, X1: offender.X0 - m, Y1: box.Y1}, // trim right edge leftward
		{X0: offender.X1 + m, Y0: box.Y0, X1: box.X1, Y1: box.Y1}, // trim left edge rightward
		{X0: box.X0, Y0: box.Y0, X1: box.X1, Y1: offender.Y0 - m}, // trim bottom edge upward
		{X0: box.X0, Y0: offender.Y1 + m, X1: box.X1, Y1: box.Y1}, // trim top edge downward
	}

	best := model.BBox{}
	found := false
	for _, c := range candidates {
		if !c.MeetsMinSize(r.config.MinWidth, r.config.MinHeight) {
			continue
		}
		if c.Intersects(offender) {
			continue
		}
		if !found || c.Area() > best.Area() {
			best = c
			found = true
		}
	}
	return best, found
}

func (r *Refiner) overlapsAny(box model.BBox, avoid []model.Block) bool {
	for _, b := range avoid {
		if box.Intersects(b.BBox) {
			return true
		}
	}
	return false
}
