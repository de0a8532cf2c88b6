package layout

import (
	"github.com/tsawler/figura/model"
)

// BoundaryConfig holds configuration for boundary resolution.
type BoundaryConfig struct {
	// Margin is the clearance, in pixels, kept between a resolved edge
	// and the neighbor block or page edge that bounds it. Default: 10.
	Margin float64

	// MinWidth is the minimum acceptable region width. Default: 50.
	MinWidth float64

	// MinHeight is the minimum acceptable region height. Default: 30.
	MinHeight float64
}

// DefaultBoundaryConfig returns sensible default configuration.
func DefaultBoundaryConfig() BoundaryConfig {
	return BoundaryConfig{
		Margin:    10.0,
		MinWidth:  50.0,
		MinHeight: 30.0,
	}
}

// BoundaryResolver turns a seed box (a label cluster's union box or a
// detected gap) into a concrete region bounding box by pushing each
// edge out to the nearest protected neighbor, or to the page edge when
// no neighbor bounds it. This is the single place that encodes "grow
// until you hit protected text or the page edge".
type BoundaryResolver struct {
	config BoundaryConfig
}

// NewBoundaryResolver creates a resolver with default configuration.
func NewBoundaryResolver() *BoundaryResolver {
	return &BoundaryResolver{config: DefaultBoundaryConfig()}
}

// NewBoundaryResolverWithConfig creates a resolver with custom configuration.
func NewBoundaryResolverWithConfig(config BoundaryConfig) *BoundaryResolver {
	return &BoundaryResolver{config: config}
}

// Boundary holds the four resolved edge constraints for one box.
type Boundary struct {
	Left, Right, Top, Bottom float64
}

// BBox converts the boundary to a bounding box.
func (b Boundary) BBox() model.BBox {
	return model.BBox{X0: b.Left, Y0: b.Top, X1: b.Right, Y1: b.Bottom}
}

// Resolve computes the bounding box for the given seed. Each edge is
// resolved independently: the nearest avoid block whose span on the
// perpendicular axis overlaps the seed bounds the edge just outside
// itself (plus margin); otherwise the page edge (minus margin) bounds
// it. Returns false when the resulting box falls below the configured
// minimum size; a false result means "no region here", not an error.
func (r *BoundaryResolver) Resolve(seed model.BBox, avoid []model.Block, page *model.Page) (model.BBox, bool) {
	bound := resolveEdges(seed, avoid, page, r.config.Margin, nil)
	box := bound.BBox()
	if !box.MeetsMinSize(r.config.MinWidth, r.config.MinHeight) {
		return model.BBox{}, false
	}
	return box, true
}

// ResolveCluster resolves the union box of a label cluster.
func (r *BoundaryResolver) ResolveCluster(cluster []model.Block, avoid []model.Block, page *model.Page) (model.BBox, bool) {
	if len(cluster) == 0 {
		return model.BBox{}, false
	}
	return r.Resolve(ClusterBBox(cluster), avoid, page)
}

// resolveEdges computes the four edge constraints for seed against the
// avoid blocks and the page. Blocks in skip are transparent and never
// bound an edge. Shared by the boundary resolver and the refiner's
// expansion pass.
func resolveEdges(seed model.BBox, avoid []model.Block, page *model.Page, margin float64, skip model.BlockIDSet) Boundary {
	bound := Boundary{
		Left:   margin,
		Right:  page.Width - margin,
		Top:    margin,
		Bottom: page.Height - margin,
	}

	for _, b := range avoid {
		if skip.Has(b.ID) {
			continue
		}
		box := b.BBox

		// Left and right neighbors must share vertical span with the seed.
		if box.VSpanOverlaps(seed) {
			if box.X1 <= seed.X0 {
				if edge := box.X1 + margin; edge > bound.Left {
					bound.Left = edge
				}
			} else if box.X0 >= seed.X1 {
				if edge := box.X0 - margin; edge < bound.Right {
					bound.Right = edge
				}
			}
		}

		// Top and bottom neighbors must share horizontal span with the seed.
		if box.HSpanOverlaps(seed) {
			if box.Y1 <= seed.Y0 {
				if edge := box.Y1 + margin; edge > bound.Top {
					bound.Top = edge
				}
			} else if box.Y0 >= seed.Y1 {
				if edge := box.Y0 - margin; edge < bound.Bottom {
					bound.Bottom = edge
				}
			}
		}
	}

	return bound
}
