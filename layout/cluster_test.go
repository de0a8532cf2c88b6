package layout

import (
	"testing"

	"github.com/tsawler/figura/model"
)

// Helper to create a label block at a vertical span
func makeLabel(id int, y0, y1 float64) model.Block {
	return model.Block{
		ID:       model.BlockID(id),
		BBox:     model.BBox{X0: 100, Y0: y0, X1: 200, Y1: y1},
		Category: model.CategoryVisualContentLabel,
	}
}

func TestNewClusterer(t *testing.T) {
	c := NewClusterer()
	if c == nil {
		t.Fatal("NewClusterer returned nil")
	}
	if c.config.GapThreshold != 20.0 {
		t.Errorf("Expected GapThreshold 20.0, got %f", c.config.GapThreshold)
	}
}

func TestClusterer_Empty(t *testing.T) {
	c := NewClusterer()
	if got := c.Cluster(nil); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}

func TestClusterer_SingleCluster(t *testing.T) {
	c := NewClusterer()
	blocks := []model.Block{
		makeLabel(0, 100, 120),
		makeLabel(1, 130, 150), // gap 10, within threshold
		makeLabel(2, 165, 185), // gap 15, within threshold
	}
	clusters := c.Cluster(blocks)
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clusters))
	}
	if len(clusters[0]) != 3 {
		t.Errorf("Expected 3 blocks in cluster, got %d", len(clusters[0]))
	}
}

func TestClusterer_SplitsOnGap(t *testing.T) {
	c := NewClusterer()
	blocks := []model.Block{
		makeLabel(0, 100, 120),
		makeLabel(1, 130, 150),
		makeLabel(2, 200, 220), // gap 50 > 20, new cluster
		makeLabel(3, 230, 250),
	}
	clusters := c.Cluster(blocks)
	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}
	if len(clusters[0]) != 2 || len(clusters[1]) != 2 {
		t.Errorf("Expected 2+2 split, got %d+%d", len(clusters[0]), len(clusters[1]))
	}
	if clusters[0][0].ID != 0 || clusters[1][0].ID != 2 {
		t.Error("Clusters not in top-to-bottom order")
	}
}

func TestClusterer_SortsInput(t *testing.T) {
	c := NewClusterer()
	// Supplied bottom-first; clustering must sort by Y0 before walking.
	blocks := []model.Block{
		makeLabel(0, 230, 250),
		makeLabel(1, 100, 120),
		makeLabel(2, 215, 225),
	}
	clusters := c.Cluster(blocks)
	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0][0].ID != 1 {
		t.Errorf("Expected topmost block first, got id %d", clusters[0][0].ID)
	}
	if len(clusters[1]) != 2 {
		t.Errorf("Expected bottom cluster of 2, got %d", len(clusters[1]))
	}
}

func TestClusterer_Idempotent(t *testing.T) {
	c := NewClusterer()
	blocks := []model.Block{
		makeLabel(0, 100, 120),
		makeLabel(1, 135, 155),
		makeLabel(2, 300, 320),
	}
	clusters := c.Cluster(blocks)
	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}

	// Re-clustering a produced cluster yields exactly one cluster.
	for i, cluster := range clusters {
		again := c.Cluster(cluster)
		if len(again) != 1 {
			t.Errorf("Cluster %d: re-clustering produced %d clusters, want 1", i, len(again))
			continue
		}
		if len(again[0]) != len(cluster) {
			t.Errorf("Cluster %d: re-clustering changed size %d -> %d",
				i, len(cluster), len(again[0]))
		}
	}
}

func TestClusterer_TieBreakOnID(t *testing.T) {
	c := NewClusterer()
	// Same Y0: order within the cluster must follow block id.
	blocks := []model.Block{
		makeLabel(5, 100, 120),
		makeLabel(2, 100, 118),
	}
	clusters := c.Cluster(blocks)
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0][0].ID != 2 || clusters[0][1].ID != 5 {
		t.Errorf("Expected id order 2,5; got %d,%d", clusters[0][0].ID, clusters[0][1].ID)
	}
}

func TestClusterBBox(t *testing.T) {
	cluster := []model.Block{
		{BBox: model.BBox{X0: 100, Y0: 100, X1: 200, Y1: 120}},
		{BBox: model.BBox{X0: 50, Y0: 130, X1: 180, Y1: 160}},
	}
	box := ClusterBBox(cluster)
	want := model.BBox{X0: 50, Y0: 100, X1: 200, Y1: 160}
	if box != want {
		t.Errorf("ClusterBBox = %+v, want %+v", box, want)
	}

	if got := ClusterBBox(nil); got != (model.BBox{}) {
		t.Errorf("Expected zero box for empty cluster, got %+v", got)
	}
}
