package layout

import (
	"sort"

	"github.com/tsawler/figura/model"
)

// ClusterConfig holds configuration for label clustering.
type ClusterConfig struct {
	// GapThreshold is the maximum vertical whitespace, in pixels,
	// between consecutive blocks for them to stay in one cluster.
	// Default: 20 pixels.
	GapThreshold float64
}

// DefaultClusterConfig returns sensible default configuration.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		GapThreshold: 20.0,
	}
}

// Clusterer groups label blocks into spatially contiguous clusters by
// vertical-gap thresholding. Blocks separated by more than the gap
// threshold belong to different diagrams.
type Clusterer struct {
	config ClusterConfig
}

// NewClusterer creates a clusterer with default configuration.
func NewClusterer() *Clusterer {
	return &Clusterer{config: DefaultClusterConfig()}
}

// NewClustererWithConfig creates a clusterer with custom configuration.
func NewClustererWithConfig(config ClusterConfig) *Clusterer {
	return &Clusterer{config: config}
}

// Cluster partitions the given blocks into top-to-bottom clusters.
// Blocks are sorted by top edge ascending with the block id as a stable
// tie-break; a new cluster starts whenever the vertical whitespace
// between a block and its predecessor exceeds the gap threshold.
//
// Clustering is idempotent: feeding one produced cluster back in yields
// exactly that cluster.
func (c *Clusterer) Cluster(blocks []model.Block) [][]model.Block {
	if len(blocks) == 0 {
		return nil
	}

	sorted := make([]model.Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y0 != sorted[j].BBox.Y0 {
			return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
		}
		return sorted[i].ID < sorted[j].ID
	})

	clusters := [][]model.Block{{sorted[0]}}
	prev := sorted[0]
	for _, b := range sorted[1:] {
		if b.BBox.Y0-prev.BBox.Y1 > c.config.GapThreshold {
			clusters = append(clusters, nil)
		}
		last := len(clusters) - 1
		clusters[last] = append(clusters[last], b)
		prev = b
	}
	return clusters
}

// ClusterBBox returns the union bounding box of a cluster's blocks.
// It returns a zero box for an empty cluster.
func ClusterBBox(cluster []model.Block) model.BBox {
	if len(cluster) == 0 {
		return model.BBox{}
	}
	box := cluster[0].BBox
	for _, b := range cluster[1:] {
		box = box.Union(b.BBox)
	}
	return box
}
