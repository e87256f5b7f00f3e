package markup

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
)

const (
	fontSize = 50
	textX    = 10
	textY    = 90
)

// Document holds both renderable forms of one sample.
type Document struct {
	HTML string
	SVG  string
}

// Render formats content in both forms.
func Render(content string, f Fonts, s Style, vp Viewport) Document {
	return Document{
		HTML: HTML(content, f, s),
		SVG:  SVG(content, f, s, vp),
	}
}

// HTML formats the browser document for content. The SVG fills its
// container; the browser viewport decides the raster size.
func HTML(content string, f Fonts, s Style) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<div style="perspective: %spx;">`, num(s.Perspective))
	fmt.Fprintf(&buf, `<svg style="transform: skew(%sdeg) rotateY(%sdeg) rotateX(%sdeg);" version="1.1" baseProfile="full" height="100%%" width="100%%"`,
		num(s.Skew), num(s.RotationY), num(s.RotationX))
	buf.WriteString(` xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">` + "\n")
	writeBody(&buf, content, f, s, fmt.Sprintf("rotate(%s)", num(s.Rotation)))
	buf.WriteString("</svg></div>\n")
	return buf.String()
}

// SVG formats a standalone SVG document of the viewport size. Perspective,
// rotateX and rotateY are not representable and are ignored.
func SVG(content string, f Fonts, s Style, vp Viewport) string {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg version="1.1" baseProfile="full" width="%d" height="%d" viewBox="0 0 %d %d"`,
		vp.Width, vp.Height, vp.Width, vp.Height)
	buf.WriteString(` xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">` + "\n")
	transform := fmt.Sprintf("rotate(%s)", num(s.Rotation))
	if s.Skew != 0 {
		transform = fmt.Sprintf("skewX(%s) %s", num(s.Skew), transform)
	}
	writeBody(&buf, content, f, s, transform)
	buf.WriteString("</svg>\n")
	return buf.String()
}

// writeBody writes the path definition and the styled text group.
func writeBody(buf *bytes.Buffer, content string, f Fonts, s Style, textTransform string) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <path id="curve" fill="none" d="%s" transform="rotate(%s 0 0)" />`+"\n", s.Path, num(s.PathStart))
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(buf, `  <g style="font-size: %dpx; font-family: %s; font-weight: %s; font-style: %s; font-feature-settings: 'cswh'; fill: black">`+"\n",
		fontSize, f.Family(), s.Weight, s.FontStyle)
	fmt.Fprintf(buf, `    <text x="%d" y="%d" xml:space="preserve" transform="%s" text-decoration="%s">`+"\n",
		textX, textY, textTransform, s.Decoration)
	fmt.Fprintf(buf, `      <textPath xlink:href="#curve">%s</textPath>`+"\n", escape(content))
	buf.WriteString("    </text>\n  </g>\n")
}

// DataURI encodes an HTML document as a percent-encoded data URI.
func DataURI(html string) string {
	return "data:text/html;charset=utf-8," + url.PathEscape(html)
}

// num formats a float without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
