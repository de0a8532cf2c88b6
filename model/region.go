package model

// RegionKind tags an output region as belonging to the question prompt
// or to one answer choice.
type RegionKind int

const (
	PromptVisual RegionKind = iota
	ChoiceVisual
)

func (k RegionKind) String() string {
	if k == ChoiceVisual {
		return "choice_visual"
	}
	return "prompt_visual"
}

// LayoutMode describes how answer choices are arranged on the page.
type LayoutMode int

const (
	// LayoutVertical is a single column of stacked choices.
	LayoutVertical LayoutMode = iota
	// LayoutGrid is a multi-column (typically 2x2) arrangement.
	LayoutGrid
)

func (m LayoutMode) String() string {
	if m == LayoutGrid {
		return "grid"
	}
	return "vertical"
}

// Region is one computed diagram bounding box to hand to the renderer.
type Region struct {
	// ID is the region's position in the final ordered output.
	ID int

	// Kind distinguishes prompt diagrams from per-choice diagrams.
	Kind RegionKind

	// BBox is the rectangle to clip, in page pixels.
	BBox BBox

	// MemberBlockIDs are the blocks whose content anchors this region.
	MemberBlockIDs BlockIDSet

	// ChoiceLetter is set for ChoiceVisual regions ("A", "B", ...).
	ChoiceLetter string

	// Confidence is the detection confidence (0-1).
	Confidence float64

	// Degraded is set when the refiner hit its size floor while text
	// overlap remained; the region is usable but may clip or include
	// stray text.
	Degraded bool
}

// MaskArea is a rectangle to whiten out before rasterizing a region,
// used to keep a choice letter out of its own diagram image.
type MaskArea struct {
	BBox       BBox
	SourceText string
	Reason     string
}
