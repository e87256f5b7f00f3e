package markup

import (
	"encoding/xml"
	"io"
	"net/url"
	"strings"
	"testing"
)

func TestHTMLSubstitutesStyle(t *testing.T) {
	s := Style{
		Weight:      "bold",
		FontStyle:   "italic",
		Rotation:    12.5,
		RotationX:   10,
		RotationY:   20,
		Skew:        5,
		Perspective: 300,
		Decoration:  "underline",
		Path:        "M 0 0 L 100 0",
		PathStart:   45,
	}
	doc := HTML("hello", Fonts{Primary: "arial", Secondary: "bbcnassim"}, s)

	for _, want := range []string{
		`perspective: 300px;`,
		`transform: skew(5deg) rotateY(20deg) rotateX(10deg);`,
		`d="M 0 0 L 100 0" transform="rotate(45 0 0)"`,
		`font-family: 'arial', 'bbcnassim';`,
		`font-weight: bold;`,
		`font-style: italic;`,
		`transform="rotate(12.5)"`,
		`text-decoration="underline"`,
		`<textPath xlink:href="#curve">hello</textPath>`,
		`height="100%" width="100%"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("HTML() missing %q in:\n%s", want, doc)
		}
	}
}

func TestHTMLDefaultStyle(t *testing.T) {
	doc := HTML("X", DefaultFonts(), DefaultStyle())

	for _, want := range []string{
		`perspective: 0px;`,
		`skew(0deg) rotateY(0deg) rotateX(0deg)`,
		`d="` + DefaultPath + `"`,
		`font-family: 'times new roman', 'bbcnassim';`,
		`text-decoration="none"`,
		`>X</textPath>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("HTML() missing %q", want)
		}
	}
}

func TestHTMLEscapesContent(t *testing.T) {
	doc := HTML(`a<b & "c"`, DefaultFonts(), DefaultStyle())
	if strings.Contains(doc, "a<b") {
		t.Errorf("content not escaped:\n%s", doc)
	}
	if !strings.Contains(doc, "a&lt;b &amp; &#34;c&#34;") {
		t.Errorf("escaped content missing:\n%s", doc)
	}
}

func TestHTMLFontsPassedVerbatim(t *testing.T) {
	doc := HTML("X", Fonts{Primary: "no such font"}, DefaultStyle())
	if !strings.Contains(doc, "font-family: 'no such font';") {
		t.Errorf("font not passed through:\n%s", doc)
	}
}

func TestSVGIsWellFormed(t *testing.T) {
	s := DefaultStyle()
	s.Skew = 15
	s.RotationX = 30
	doc := SVG("سلام & co", DefaultFonts(), s, DefaultViewport())

	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("SVG() is not well-formed XML: %v\n%s", err, doc)
		}
	}

	for _, want := range []string{
		`width="500" height="150" viewBox="0 0 500 150"`,
		`transform="skewX(15) rotate(0)"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("SVG() missing %q in:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "rotateX") {
		t.Error("SVG() should drop 3D transforms")
	}
}

func TestRenderProducesBothForms(t *testing.T) {
	doc := Render("X", DefaultFonts(), DefaultStyle(), DefaultViewport())
	if !strings.HasPrefix(doc.HTML, "<div") {
		t.Errorf("HTML form = %q", doc.HTML[:20])
	}
	if !strings.HasPrefix(doc.SVG, "<?xml") {
		t.Errorf("SVG form = %q", doc.SVG[:20])
	}
}

func TestDataURI(t *testing.T) {
	html := HTML("خانه #1", DefaultFonts(), DefaultStyle())
	uri := DataURI(html)

	const prefix = "data:text/html;charset=utf-8,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("DataURI() prefix = %q", uri[:len(prefix)])
	}
	payload := strings.TrimPrefix(uri, prefix)
	for _, c := range []string{" ", "#", "<", `"`} {
		if strings.Contains(payload, c) {
			t.Errorf("payload contains unescaped %q", c)
		}
	}

	decoded, err := url.PathUnescape(payload)
	if err != nil {
		t.Fatalf("PathUnescape error: %v", err)
	}
	if decoded != html {
		t.Error("DataURI payload does not decode to the document")
	}
}

func TestDefaultVariants(t *testing.T) {
	variants := DefaultVariants()
	if len(variants) != 3 {
		t.Fatalf("len(DefaultVariants()) = %d, want 3", len(variants))
	}

	wantSuffix := []string{"", "_bold", "_italic"}
	for i, v := range variants {
		if v.Suffix != wantSuffix[i] {
			t.Errorf("variants[%d].Suffix = %q, want %q", i, v.Suffix, wantSuffix[i])
		}
		if v.Path != DefaultPath {
			t.Errorf("variants[%d].Path = %q", i, v.Path)
		}
	}
	if variants[0].Perspective != 200 {
		t.Errorf("normal perspective = %v, want 200", variants[0].Perspective)
	}
	if variants[1].Weight != "bold" || variants[2].FontStyle != "italic" {
		t.Errorf("unexpected bold/italic variants: %+v %+v", variants[1], variants[2])
	}

	if _, ok := FindVariant(variants, "italic"); !ok {
		t.Error("FindVariant(italic) not found")
	}
	if _, ok := FindVariant(variants, "oblique"); ok {
		t.Error("FindVariant(oblique) should not be found")
	}
}
