package markup

import "github.com/matzehuels/synthtext/pkg/fonts"

// DefaultPath is the quadratic curve the text follows by default.
const DefaultPath = "M 50 100 q 250 -100 500 0"

// Default viewport size in pixels.
const (
	DefaultWidth  = 500
	DefaultHeight = 150
)

// Style is the parameter bundle of one rendering variant.
// Angles are in degrees, Perspective in pixels (0 disables it).
type Style struct {
	Name        string  `toml:"name" json:"name"`
	Suffix      string  `toml:"suffix" json:"suffix"`
	Weight      string  `toml:"weight" json:"weight"`
	FontStyle   string  `toml:"style" json:"style"`
	Rotation    float64 `toml:"rotation" json:"rotation"`
	RotationX   float64 `toml:"rotation_x" json:"rotation_x"`
	RotationY   float64 `toml:"rotation_y" json:"rotation_y"`
	Skew        float64 `toml:"skew" json:"skew"`
	Perspective float64 `toml:"perspective" json:"perspective"`
	Decoration  string  `toml:"decoration" json:"decoration"`
	Path        string  `toml:"path" json:"path"`
	PathStart   float64 `toml:"path_start" json:"path_start"`
}

// DefaultStyle returns the untransformed style: normal weight and style,
// no rotation, skew or perspective, no decoration, the default curve.
func DefaultStyle() Style {
	return Style{
		Name:       "normal",
		Weight:     "normal",
		FontStyle:  "normal",
		Decoration: "none",
		Path:       DefaultPath,
	}
}

// DefaultVariants returns the stock variants: normal (with a 200px
// perspective), bold and italic. Suffixes are "", "_bold" and "_italic".
func DefaultVariants() []Style {
	normal := DefaultStyle()
	normal.Perspective = 200

	bold := DefaultStyle()
	bold.Name = "bold"
	bold.Suffix = "_bold"
	bold.Weight = "bold"

	italic := DefaultStyle()
	italic.Name = "italic"
	italic.Suffix = "_italic"
	italic.FontStyle = "italic"

	return []Style{normal, bold, italic}
}

// FindVariant returns the variant with the given name.
func FindVariant(variants []Style, name string) (Style, bool) {
	for _, v := range variants {
		if v.Name == name {
			return v, true
		}
	}
	return Style{}, false
}

// Fonts is the primary/secondary family pair of a document.
type Fonts struct {
	Primary   string `toml:"primary" json:"primary"`
	Secondary string `toml:"secondary" json:"secondary"`
}

// DefaultFonts returns the stock font pair.
func DefaultFonts() Fonts {
	return Fonts{Primary: fonts.DefaultPrimary, Secondary: fonts.DefaultSecondary}
}

// Family returns the CSS font-family value for the pair.
func (f Fonts) Family() string {
	return fonts.FamilyList(f.Primary, f.Secondary)
}

// Viewport is the rendered area in pixels.
type Viewport struct {
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
}

// DefaultViewport returns the stock 500x150 viewport.
func DefaultViewport() Viewport {
	return Viewport{Width: DefaultWidth, Height: DefaultHeight}
}
