package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// artifactDrop holds characters that video OCR engines emit for subtitle
// border decorations and compression noise. They never appear in real
// caption text and are removed outright.
const artifactDrop = "<>{}[];`@#$%^*_=~\\"

// CleanOCRText normalizes one raw OCR detection string. Fullwidth forms are
// folded to their halfwidth counterparts first, so artifact handling sees
// ordinary ASCII regardless of which variant the engine emitted. The pipe
// artifact is mapped to the letter it is usually misread from, decoration
// artifacts are dropped, the result is NFC-normalized and trimmed.
func CleanOCRText(text string) string {
	folded := width.Narrow.String(text)
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '|':
			return 'I'
		case strings.ContainsRune(artifactDrop, r):
			return -1
		default:
			return r
		}
	}, folded)
	return strings.TrimSpace(norm.NFC.String(mapped))
}
