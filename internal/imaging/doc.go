// Package imaging provides the pixel-level collaborators of the shape
// analyzer: decoding, preprocessing, histograms and colour palettes.
//
// Nothing in this package knows about shape descriptors. It turns files into
// images and images into binary edge maps that the detection package can
// trace. All operations work with standard Go image.Image types.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward.
//
// # Filter Chain
//
// Preprocess runs the chain the analyzer depends on:
//
//  1. Grayscale conversion (bild effect.Grayscale)
//  2. Gaussian blur (bild blur.Gaussian)
//  3. Canny edge detection (Sobel gradients, non-maximum suppression,
//     hysteresis)
//  4. Morphological close (bild effect.Dilate then effect.Erode) so that
//     outlines with one-pixel gaps become closed curves
//
// # Thread Safety
//
// The Cache type is safe for concurrent use. Every other function is
// stateless and may run concurrently on different images.
//
// # Error Handling
//
// Decode failures wrap ErrDecode; callers treat them as fatal for the run.
// Encoding and directory errors from Save are wrapped with context.
package imaging
