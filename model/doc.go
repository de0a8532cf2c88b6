// Package model defines the data types shared by all segmentation
// components: classified blocks, pages, output regions, mask areas,
// and the bounding-box geometry they are built on.
//
// All coordinates are raster page pixels with the origin at the top-left
// corner of the page; Y increases downward. Blocks are immutable after
// ingestion and carry a stable integer ID assigned by NewPage.
package model
