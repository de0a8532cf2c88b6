package layout

import (
	"testing"

	"github.com/tsawler/figura/model"
)

// Helper to create a protected text block spanning a vertical range
func makeAvoid(id int, y0, y1 float64) model.Block {
	return model.Block{
		ID:       model.BlockID(id),
		BBox:     model.BBox{X0: 50, Y0: y0, X1: 550, Y1: y1},
		Category: model.CategoryQuestionText,
	}
}

func testPage() *model.Page {
	return &model.Page{Number: 1, Width: 600, Height: 800}
}

func TestNewGapDetector(t *testing.T) {
	gd := NewGapDetector()
	if gd.config.MinGap != 100.0 {
		t.Errorf("Expected strict MinGap 100.0, got %f", gd.config.MinGap)
	}
	flex := NewGapDetectorWithConfig(FlexibleGapConfig())
	if flex.config.MinGap != 30.0 {
		t.Errorf("Expected flexible MinGap 30.0, got %f", flex.config.MinGap)
	}
}

func TestGapDetector_NoBlocks(t *testing.T) {
	gd := NewGapDetector()
	if gaps := gd.FindGaps(nil, nil, testPage()); gaps != nil {
		t.Errorf("Expected nil gaps for no blocks, got %v", gaps)
	}
}

// Scenario from the fallback selection design: two question blocks near
// the top of an 800px page. The 20px between-gap is rejected by the
// strict 100px minimum; the large bottom gap wins.
func TestGapDetector_BottomGapFallback(t *testing.T) {
	gd := NewGapDetector()
	page := testPage()
	avoid := []model.Block{
		makeAvoid(0, 0, 50),
		makeAvoid(1, 70, 120),
	}

	gaps := gd.FindGaps(avoid, nil, page)
	if len(gaps) != 1 {
		t.Fatalf("Expected exactly 1 surviving gap, got %d", len(gaps))
	}

	best := gd.Best(gaps, nil)
	if best == nil {
		t.Fatal("Expected a best gap")
	}
	if best.Kind != GapBottom {
		t.Errorf("Expected bottom gap, got %v", best.Kind)
	}
	if best.Start != 120 {
		t.Errorf("Expected gap start 120, got %f", best.Start)
	}
	if best.End != 790 {
		t.Errorf("Expected gap end 790 (page bottom minus margin), got %f", best.End)
	}
	if best.Size < 100 {
		t.Errorf("Expected size >= 100, got %f", best.Size)
	}
}

func TestGapDetector_BetweenBeatsLargerBottom(t *testing.T) {
	gd := NewGapDetector()
	page := testPage()
	avoid := []model.Block{
		makeAvoid(0, 0, 100),
		makeAvoid(1, 300, 400), // between gap of 200
	}

	gaps := gd.FindGaps(avoid, nil, page)
	best := gd.Best(gaps, nil)
	if best == nil {
		t.Fatal("Expected a best gap")
	}
	// The bottom gap (400..790, size 390) is larger, but between has
	// higher priority.
	if best.Kind != GapBetween {
		t.Errorf("Expected between gap to win on priority, got %v", best.Kind)
	}
	if best.Start != 100 || best.End != 300 {
		t.Errorf("Unexpected gap extent [%f, %f]", best.Start, best.End)
	}
}

func TestGapDetector_TopGap(t *testing.T) {
	gd := NewGapDetector()
	page := testPage()
	avoid := []model.Block{
		makeAvoid(0, 300, 780),
	}

	gaps := gd.FindGaps(avoid, nil, page)
	best := gd.Best(gaps, nil)
	if best == nil {
		t.Fatal("Expected a best gap")
	}
	if best.Kind != GapTop {
		t.Errorf("Expected top gap, got %v", best.Kind)
	}
	if best.Start != 10 || best.End != 300 {
		t.Errorf("Unexpected top gap extent [%f, %f]", best.Start, best.End)
	}
}

func TestGapDetector_FooterPullsEffectiveBottom(t *testing.T) {
	gd := NewGapDetector()
	page := testPage()
	avoid := []model.Block{
		makeAvoid(0, 0, 120),
	}
	footer := model.Block{
		ID:   model.BlockID(9),
		BBox: model.BBox{X0: 250, Y0: 760, X1: 350, Y1: 780},
	}

	gaps := gd.FindGaps(avoid, []model.Block{footer}, page)
	best := gd.Best(gaps, nil)
	if best == nil {
		t.Fatal("Expected a best gap")
	}
	if best.Kind != GapBottom {
		t.Fatalf("Expected bottom gap, got %v", best.Kind)
	}
	if best.End != 750 {
		t.Errorf("Expected effective bottom 750 (footer top minus margin), got %f", best.End)
	}
}

func TestGapDetector_MinGapRejectsAll(t *testing.T) {
	gd := NewGapDetector()
	page := &model.Page{Number: 1, Width: 600, Height: 200}
	avoid := []model.Block{
		makeAvoid(0, 0, 80),
		makeAvoid(1, 90, 190),
	}

	gaps := gd.FindGaps(avoid, nil, page)
	if len(gaps) != 0 {
		t.Errorf("Expected no gaps to clear the threshold, got %d", len(gaps))
	}
	if best := gd.Best(gaps, nil); best != nil {
		t.Error("Expected nil best gap when no candidate survives")
	}
}

func TestGapDetector_FlexibleModeAcceptsSmallGap(t *testing.T) {
	gd := NewGapDetectorWithConfig(FlexibleGapConfig())
	page := &model.Page{Number: 1, Width: 600, Height: 200}
	avoid := []model.Block{
		makeAvoid(0, 0, 80),
		makeAvoid(1, 120, 195), // between gap of 40 >= 30
	}

	gaps := gd.FindGaps(avoid, nil, page)
	best := gd.Best(gaps, nil)
	if best == nil {
		t.Fatal("Expected flexible mode to accept the 40px gap")
	}
	if best.Kind != GapBetween {
		t.Errorf("Expected between gap, got %v", best.Kind)
	}
}

func TestGapDetector_TrimsHorizontalExtent(t *testing.T) {
	gd := NewGapDetector()
	page := testPage()
	avoid := []model.Block{
		makeAvoid(0, 0, 50),
		makeAvoid(1, 400, 500),
	}
	// A narrow sidebar intruding into the between gap on the left.
	sidebar := model.Block{
		ID:   model.BlockID(7),
		BBox: model.BBox{X0: 0, Y0: 100, X1: 80, Y1: 300},
	}

	gaps := gd.FindGaps(avoid, nil, page)
	best := gd.Best(gaps, []model.Block{sidebar})
	if best == nil {
		t.Fatal("Expected a best gap")
	}
	if best.Kind != GapBetween {
		t.Fatalf("Expected between gap, got %v", best.Kind)
	}
	if best.X0 != 90 {
		t.Errorf("Expected left extent trimmed to 90 (sidebar right plus margin), got %f", best.X0)
	}
	if best.X1 != 590 {
		t.Errorf("Expected right extent 590, got %f", best.X1)
	}
}

func TestGapDetector_NestedBlockDoesNotCreatePhantomGap(t *testing.T) {
	gd := NewGapDetectorWithConfig(GapConfig{MinGap: 30, Margin: 10})
	page := testPage()
	// Second block sits vertically inside the first; the walk must carry
	// the running maximum bottom edge.
	avoid := []model.Block{
		makeAvoid(0, 100, 400),
		makeAvoid(1, 150, 200),
		makeAvoid(2, 500, 600),
	}

	gaps := gd.FindGaps(avoid, nil, page)
	// The only legitimate between gap starts at the running maximum
	// bottom (400); a gap starting earlier begins inside a covered span.
	for _, g := range gaps {
		if g.Kind == GapBetween && g.Start < 400 {
			t.Errorf("Phantom gap inside covered span: [%f, %f]", g.Start, g.End)
		}
	}
}

func TestGapBBox(t *testing.T) {
	g := Gap{Start: 100, End: 300, X0: 10, X1: 590}
	box := g.BBox()
	want := model.BBox{X0: 10, Y0: 100, X1: 590, Y1: 300}
	if box != want {
		t.Errorf("Gap.BBox() = %+v, want %+v", box, want)
	}
}
