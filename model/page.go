package model

import "sort"

// Page holds one page's dimensions and its classified blocks in reading
// order. Blocks receive their stable IDs here and are never mutated
// afterward.
type Page struct {
	Number int     // 1-indexed page number
	Width  float64 // page width in pixels
	Height float64 // page height in pixels
	Blocks []Block
}

// NewPage creates a page, assigns sequential BlockIDs in the order the
// blocks were supplied, and sorts the blocks into reading order
// (top-to-bottom, then left-to-right, with the assigned ID as the final
// tie-break so ordering is fully deterministic).
func NewPage(number int, width, height float64, blocks []Block) *Page {
	owned := make([]Block, len(blocks))
	copy(owned, blocks)
	for i := range owned {
		owned[i].ID = BlockID(i)
		owned[i].PageNumber = number
	}
	sort.SliceStable(owned, func(i, j int) bool {
		if owned[i].BBox.Y0 != owned[j].BBox.Y0 {
			return owned[i].BBox.Y0 < owned[j].BBox.Y0
		}
		if owned[i].BBox.X0 != owned[j].BBox.X0 {
			return owned[i].BBox.X0 < owned[j].BBox.X0
		}
		return owned[i].ID < owned[j].ID
	})
	return &Page{
		Number: number,
		Width:  width,
		Height: height,
		Blocks: owned,
	}
}

// Bounds returns the page rectangle.
func (p *Page) Bounds() BBox {
	return BBox{X0: 0, Y0: 0, X1: p.Width, Y1: p.Height}
}

// BlocksByCategory returns the page's blocks matching any of the given
// categories, in reading order.
func (p *Page) BlocksByCategory(categories ...Category) []Block {
	var out []Block
	for _, b := range p.Blocks {
		for _, c := range categories {
			if b.Category == c {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// BlocksByKind returns the page's blocks of the given kind, in reading
// order.
func (p *Page) BlocksByKind(kind BlockKind) []Block {
	var out []Block
	for _, b := range p.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// BlockByID returns the block with the given id, if present.
func (p *Page) BlockByID(id BlockID) (Block, bool) {
	for _, b := range p.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}
