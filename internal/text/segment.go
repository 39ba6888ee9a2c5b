package text

import (
	"regexp"
	"strings"
)

// delimiterRegexPattern matches a run of punctuation together with the
// whitespace around it. Round brackets are listed even though the normalizer
// turns them into guillemets, so un-normalized text splits the same way.
const delimiterRegexPattern = `(?:\s*[;:,.!?¡¿—…"«»“”(){}\[\]]+\s*)+`

var delimiterPattern = regexp.MustCompile(delimiterRegexPattern)

// Segment is one piece of a punctuation-preserving split. Delimiter segments
// are copied through untouched; the others are phonemized.
type Segment struct {
	Delimiter bool
	Text      string
}

// SplitSegments splits text into alternating delimiter and content segments.
// Concatenating the Text of every segment in order yields the input exactly.
func SplitSegments(text string) []Segment {
	matches := delimiterPattern.FindAllStringIndex(text, -1)
	segments := make([]Segment, 0, 2*len(matches)+1)
	previous := 0

	for _, loc := range matches {
		if previous < loc[0] {
			segments = append(segments, Segment{Delimiter: false, Text: text[previous:loc[0]]})
		}

		if loc[1] > loc[0] {
			segments = append(segments, Segment{Delimiter: true, Text: text[loc[0]:loc[1]]})
		}

		previous = loc[1]
	}

	if previous < len(text) {
		segments = append(segments, Segment{Delimiter: false, Text: text[previous:]})
	}

	return segments
}

// JoinSegments concatenates segments in order.
func JoinSegments(segments []Segment) string {
	var builder strings.Builder

	for _, segment := range segments {
		builder.WriteString(segment.Text)
	}

	return builder.String()
}
