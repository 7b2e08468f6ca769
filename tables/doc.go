// Package tables locates table regions in raster pages and resolves their
// row/column structure.
//
// # Region Detection
//
// [RegionDetector] finds candidate table areas: edge detection, a
// morphological dilation that merges nearby edges into closed shapes,
// connected-component extraction, and an area filter that rejects
// components smaller than 5% of the page. When nothing passes the filter
// the caller should treat the whole page as a single region;
// [RegionDetector.DetectOrWholePage] encodes that fallback.
//
// # Grid Resolution
//
// [GridResolver] determines the cell boundaries of a region in two tiers:
//
//  1. Line-based: near-horizontal and near-vertical segments are detected,
//     classified by angle, and clustered into boundaries. Accepted when
//     both axes produce at least two boundaries.
//  2. Projection-based: pixel-density peaks along each axis are clustered
//     into boundaries. When even this yields too few clusters, a uniform
//     synthetic grid of at least 3x3 cells is used.
//
// Boundary lists are always padded with the region edges when the nearest
// detected boundary is more than a few pixels away, so no content is
// clipped outside the grid. The resolver never returns fewer than two
// boundaries per axis.
package tables
