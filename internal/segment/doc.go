// Package segment removes or fades the background of an image using a
// heuristic color mask.
//
// The pipeline has four stages, each feeding the next:
//
//  1. CornerEstimator elects the background reference color from the four
//     corner pixels.
//  2. NewToleranceMask flags every pixel whose channels are all within the
//     tolerance (default 30) of that color.
//  3. The compositor rewrites alpha for flagged pixels, or flattens the cut-out
//     onto a solid fill color.
//  4. The result is encoded as PNG: RGBA for transparent output, RGB for solid.
//
// # Fallback Chain
//
// Segmenter wraps the pipeline in a two-tier fallback. When the primary tier
// fails for any reason, the degraded tier re-decodes the input and treats every
// near-white pixel (all channels above 240) as background. The degraded tier
// always produces transparent output with background alpha 0; a request for
// solid output or partial transparency is not honored there, and Result.Tier
// tells the caller which tier ran. When both tiers fail the error wraps
// imaging.ErrFatal.
//
// This is not a learned segmentation model. Images whose background does not
// reach the corners are misclassified.
package segment
