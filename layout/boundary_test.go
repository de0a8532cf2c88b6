package layout

import (
	"testing"

	"github.com/tsawler/figura/model"
)

// Helper to create a protected block with an arbitrary box
func makeBlock(id int, x0, y0, x1, y1 float64, cat model.Category) model.Block {
	return model.Block{
		ID:       model.BlockID(id),
		BBox:     model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		Category: cat,
	}
}

func TestNewBoundaryResolver(t *testing.T) {
	r := NewBoundaryResolver()
	if r.config.Margin != 10.0 {
		t.Errorf("Expected Margin 10.0, got %f", r.config.Margin)
	}
	if r.config.MinWidth != 50.0 || r.config.MinHeight != 30.0 {
		t.Errorf("Unexpected size floor %fx%f", r.config.MinWidth, r.config.MinHeight)
	}
}

func TestBoundaryResolver_PageEdgesWhenNoNeighbors(t *testing.T) {
	r := NewBoundaryResolver()
	page := testPage()
	seed := model.BBox{X0: 200, Y0: 300, X1: 400, Y1: 500}

	box, ok := r.Resolve(seed, nil, page)
	if !ok {
		t.Fatal("Expected resolution to succeed")
	}
	want := model.BBox{X0: 10, Y0: 10, X1: 590, Y1: 790}
	if box != want {
		t.Errorf("Resolve = %+v, want %+v", box, want)
	}
}

func TestBoundaryResolver_StopsAtNeighbors(t *testing.T) {
	r := NewBoundaryResolver()
	page := testPage()
	seed := model.BBox{X0: 200, Y0: 300, X1: 400, Y1: 500}

	avoid := []model.Block{
		// Above the seed, sharing horizontal span.
		makeBlock(0, 100, 100, 500, 200, model.CategoryQuestionText),
		// Below the seed, sharing horizontal span.
		makeBlock(1, 100, 600, 500, 700, model.CategoryQuestionText),
		// Left of the seed, sharing vertical span.
		makeBlock(2, 20, 250, 120, 550, model.CategoryAnswerChoice),
	}

	box, ok := r.Resolve(seed, avoid, page)
	if !ok {
		t.Fatal("Expected resolution to succeed")
	}
	if box.Y0 != 210 {
		t.Errorf("Expected top at 210 (neighbor bottom plus margin), got %f", box.Y0)
	}
	if box.Y1 != 590 {
		t.Errorf("Expected bottom at 590 (neighbor top minus margin), got %f", box.Y1)
	}
	if box.X0 != 130 {
		t.Errorf("Expected left at 130 (neighbor right plus margin), got %f", box.X0)
	}
	if box.X1 != 590 {
		t.Errorf("Expected right at page edge 590, got %f", box.X1)
	}
}

func TestBoundaryResolver_IgnoresNonOverlappingNeighbors(t *testing.T) {
	r := NewBoundaryResolver()
	page := testPage()
	seed := model.BBox{X0: 200, Y0: 300, X1: 400, Y1: 500}

	// Above the seed but off to the side: no shared horizontal span, so
	// it must not bound the top edge.
	avoid := []model.Block{
		makeBlock(0, 450, 100, 590, 200, model.CategoryQuestionText),
	}

	box, ok := r.Resolve(seed, avoid, page)
	if !ok {
		t.Fatal("Expected resolution to succeed")
	}
	if box.Y0 != 10 {
		t.Errorf("Expected top at page edge 10, got %f", box.Y0)
	}
	// It does share vertical span with nothing, so right stays at page edge.
	if box.X1 != 590 {
		t.Errorf("Expected right at page edge 590, got %f", box.X1)
	}
}

func TestBoundaryResolver_NearestNeighborWins(t *testing.T) {
	r := NewBoundaryResolver()
	page := testPage()
	seed := model.BBox{X0: 200, Y0: 400, X1: 400, Y1: 500}

	avoid := []model.Block{
		makeBlock(0, 100, 50, 500, 100, model.CategoryQuestionText),
		makeBlock(1, 100, 200, 500, 300, model.CategoryQuestionText), // nearer
	}

	box, ok := r.Resolve(seed, avoid, page)
	if !ok {
		t.Fatal("Expected resolution to succeed")
	}
	if box.Y0 != 310 {
		t.Errorf("Expected nearest neighbor to bound the top at 310, got %f", box.Y0)
	}
}

func TestBoundaryResolver_RejectsBelowMinimumSize(t *testing.T) {
	r := NewBoundaryResolver()
	page := testPage()
	seed := model.BBox{X0: 200, Y0: 300, X1: 400, Y1: 500}

	// Neighbors crowd the seed to a sliver narrower than the floor.
	avoid := []model.Block{
		makeBlock(0, 0, 250, 190, 550, model.CategoryQuestionText),
		makeBlock(1, 220, 250, 590, 550, model.CategoryQuestionText),
	}

	if _, ok := r.Resolve(seed, avoid, page); ok {
		t.Error("Expected resolution to reject a box below the size floor")
	}
}

func TestBoundaryResolver_ResolveCluster(t *testing.T) {
	r := NewBoundaryResolver()
	page := testPage()
	cluster := []model.Block{
		makeBlock(0, 200, 300, 280, 330, model.CategoryVisualContentLabel),
		makeBlock(1, 320, 350, 400, 380, model.CategoryVisualContentLabel),
	}

	box, ok := r.ResolveCluster(cluster, nil, page)
	if !ok {
		t.Fatal("Expected cluster resolution to succeed")
	}
	if !box.ContainsBBox(ClusterBBox(cluster)) {
		t.Errorf("Resolved box %+v does not contain cluster box", box)
	}

	if _, ok := r.ResolveCluster(nil, nil, page); ok {
		t.Error("Expected empty cluster to resolve to nothing")
	}
}
