// Package markup formats the vector-markup documents that are rasterized
// into sample images.
//
// # Overview
//
// A document renders one string of text along an SVG path, styled by a
// [Style] (weight, italic, rotation, skew, perspective, decoration, path)
// and a [Fonts] pair. Visual transforms live entirely in the Style, so the
// same content can be rendered under many synthetic distortions by varying
// only the parameter bundle.
//
// Two forms are produced:
//
//   - [HTML]: the browser document. A <div> carries the CSS perspective and
//     the <svg> carries CSS skew/rotateX/rotateY transforms.
//   - [SVG]: a standalone SVG for rasterizers without a CSS engine. 3D
//     transforms have no SVG equivalent and are dropped; skew becomes skewX.
//
// Formatting is pure: no parameter is range-checked and font names are
// passed through verbatim. Text content is XML-escaped.
//
//	doc := markup.HTML("X", markup.DefaultFonts(), markup.DefaultStyle())
//	uri := markup.DataURI(doc)
package markup
