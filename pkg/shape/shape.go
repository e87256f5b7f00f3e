package shape

import (
	"fmt"
	"unicode/utf8"

	"github.com/matzehuels/synthtext/pkg/errors"
)

// Shaper converts a logical string into its display-ordered form.
type Shaper interface {
	Shape(word string) (string, error)
}

// Word pairs an input string with its display-ordered form.
type Word struct {
	Text    string // original logical string, used for filenames
	Display string // display-ordered string, used for rendering
}

// Shaper names accepted by [ByName].
const (
	NameIdentity = "none"
	NameVisual   = "visual"
)

// ByName returns the shaper registered under name.
func ByName(name string) (Shaper, error) {
	switch name {
	case NameIdentity:
		return Identity{}, nil
	case NameVisual, "":
		return Visual{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown shaper %q (must be %q or %q)", name, NameVisual, NameIdentity)
	}
}

// Identity returns words unchanged.
type Identity struct{}

// Shape returns word unchanged after checking it is valid UTF-8.
func (Identity) Shape(word string) (string, error) {
	if !utf8.ValidString(word) {
		return "", errors.New(errors.ErrCodeShape, "word %q is not valid UTF-8", word)
	}
	return word, nil
}

// Words shapes every text once, in order. The first failure aborts.
func Words(s Shaper, texts []string) ([]Word, error) {
	words := make([]Word, 0, len(texts))
	for _, t := range texts {
		display, err := s.Shape(t)
		if err != nil {
			return nil, fmt.Errorf("shape %q: %w", t, err)
		}
		words = append(words, Word{Text: t, Display: display})
	}
	return words, nil
}
