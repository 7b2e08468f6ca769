// Package imageproc normalizes raster pages for table detection and OCR.
//
// The [Preprocessor] applies a fixed chain of transforms: grayscale
// conversion, denoising, local contrast enhancement, Otsu binarization,
// and a light dilation that reconnects broken glyph strokes. Each step is
// individually skippable: when a step fails, the chain continues from the
// last successfully produced image and reports the skip as a warning
// instead of aborting. A systemic failure therefore surfaces later as
// empty OCR output, never as an error from this package.
//
// The package also exports [OtsuThreshold] and [Binarize], which the OCR
// cell reader reuses for per-cell binarization.
package imageproc
