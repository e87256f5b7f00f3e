package errors

import (
	"strings"
	"unicode"
)

// maxWordLength bounds a word so the derived filename stays under common
// filesystem limits (255 bytes) once a variant suffix and extension are added.
const maxWordLength = 200

// ValidateWord validates a sample word. Words become filename stems, so they
// must be non-empty, free of control characters and path separators.
// Leading, trailing and repeated spaces are preserved and allowed.
func ValidateWord(word string) error {
	if strings.TrimSpace(word) == "" {
		return New(ErrCodeInvalidWord, "word cannot be empty")
	}

	if len(word) > maxWordLength {
		return New(ErrCodeInvalidWord, "word too long (max %d bytes)", maxWordLength)
	}

	for _, r := range word {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidWord, "word %q contains control characters", word)
		}
	}

	if strings.ContainsAny(word, `/\`) {
		return New(ErrCodeInvalidWord, "word %q contains a path separator", word)
	}
	if word == "." || word == ".." {
		return New(ErrCodeInvalidWord, "word %q is a reserved path name", word)
	}

	return nil
}

// ValidateSuffix validates a variant filename suffix such as "_bold".
// An empty suffix is valid (the default variant).
func ValidateSuffix(suffix string) error {
	for _, r := range suffix {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "suffix %q contains control characters", suffix)
		}
	}
	if strings.ContainsAny(suffix, `/\`) {
		return New(ErrCodeInvalidInput, "suffix %q contains a path separator", suffix)
	}
	return nil
}

// ValidateOutputDir validates an output directory path.
// Relative and absolute paths are both allowed; NUL and control
// characters are rejected.
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	}

	const maxPathLength = 1024
	if len(dir) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range dir {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a scheme the backend can dial.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL %q must use one of the schemes: %s", rawURL, strings.Join(schemes, ", "))
}
