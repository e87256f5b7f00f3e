package shape

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/bidi"

	"github.com/matzehuels/synthtext/pkg/errors"
)

// Visual reorders a single paragraph into visual left-to-right order.
// The paragraph direction is taken from the first strong character and
// defaults to left-to-right.
type Visual struct{}

// Shape returns word in display order.
func (Visual) Shape(word string) (string, error) {
	if !utf8.ValidString(word) {
		return "", errors.New(errors.ErrCodeShape, "word %q is not valid UTF-8", word)
	}
	if word == "" {
		return word, nil
	}

	var p bidi.Paragraph
	if _, err := p.SetString(word); err != nil {
		return "", errors.Wrap(errors.ErrCodeShape, err, "bidi analysis of %q", word)
	}
	ordering, err := p.Order()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeShape, err, "bidi ordering of %q", word)
	}

	// Runs come in visual order; right-to-left runs hold their text in
	// logical order and are reversed rune by rune.
	var b strings.Builder
	b.Grow(len(word))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		s := run.String()
		if run.Direction() == bidi.RightToLeft {
			s = reverse(s)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func reverse(s string) string {
	runes := []rune(s)
	for a, b := 0, len(runes)-1; a < b; a, b = a+1, b-1 {
		runes[a], runes[b] = runes[b], runes[a]
	}
	return string(runes)
}
