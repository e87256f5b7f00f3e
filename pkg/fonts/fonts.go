// Package fonts names the font families used when rendering samples.
//
// Fonts are resolved by the rasterizer (the browser or librsvg), not loaded
// by this program. A sample names a primary family for Latin text and a
// secondary family that covers the right-to-left scripts; the renderer falls
// back from one to the other glyph by glyph.
package fonts

import "strings"

const (
	// DefaultPrimary is the primary family of the stock sample set.
	DefaultPrimary = "times new roman"

	// DefaultSecondary is the fallback family for Persian and Arabic glyphs.
	DefaultSecondary = "bbcnassim"
)

// FamilyList formats families as a CSS font-family value: each name is
// single-quoted and names are comma separated. Empty names are skipped.
// Names are not validated or escaped; a malformed name surfaces as a
// rendering failure downstream.
func FamilyList(families ...string) string {
	quoted := make([]string, 0, len(families))
	for _, f := range families {
		if f == "" {
			continue
		}
		quoted = append(quoted, "'"+f+"'")
	}
	return strings.Join(quoted, ", ")
}
