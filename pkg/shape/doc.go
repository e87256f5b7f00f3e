// Package shape converts logical word strings into display order.
//
// Right-to-left scripts (Arabic, Persian, Hebrew) are stored in logical order:
// the first character in memory is the first character read. Renderers that
// lay glyphs out strictly left to right need the visual order instead. A
// [Shaper] performs that conversion; the pipeline calls it once per word at
// startup and keeps both forms in a [Word].
//
// Two shapers are provided:
//
//   - [Identity] returns the input unchanged, for renderers that run their
//     own bidi algorithm.
//   - [Visual] orders the paragraph with golang.org/x/text/unicode/bidi and
//     joins its runs left to right, reversing the right-to-left ones.
//
// Contextual letter forms (Arabic joining) are left to the font renderer.
package shape
