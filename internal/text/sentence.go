package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChunkChars is the default upper bound, in characters, of a chunk
// handed to the synthesis model.
const DefaultMaxChunkChars = 200

// Regex patterns for sentence segmentation.
const (
	sentenceBoundaryRegexPattern = `[.!?।॥…]+["'”’»]?\s+|\n+`
	terminalRegexPattern         = `[.!?।॥…]["'”’»]?$`
)

var (
	sentenceBoundaryPattern = regexp.MustCompile(sentenceBoundaryRegexPattern)
	terminalPattern         = regexp.MustCompile(terminalRegexPattern)
)

// Splitter segments long text into sentence-aligned chunks bounded by a
// maximum character count. It operates on the original text, not phonemes.
type Splitter struct {
	maxChars int
}

// NewSplitter creates a Splitter. A non-positive maxChars selects
// DefaultMaxChunkChars.
func NewSplitter(maxChars int) *Splitter {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	return &Splitter{maxChars: maxChars}
}

// MaxChars returns the chunk budget of the splitter.
func (s *Splitter) MaxChars() int {
	return s.maxChars
}

// SplitIntoSentences splits text with the default chunk budget.
func SplitIntoSentences(text string) []string {
	return NewSplitter(DefaultMaxChunkChars).Split(text)
}

// Split returns the chunks of text. Each sentence keeps its terminal
// punctuation, and no chunk is longer than the splitter budget.
func (s *Splitter) Split(text string) []string {
	return s.pack(sentences(text))
}

// sentences cuts text at sentence boundaries and re-attaches the delimiter
// consumed by each cut to the sentence before it.
func sentences(text string) []string {
	parts := sentenceBoundaryPattern.Split(text, -1)
	delimiters := sentenceBoundaryPattern.FindAllString(text, -1)
	result := make([]string, 0, len(parts))

	for i, part := range parts {
		delimiter := ""
		if i < len(delimiters) {
			delimiter = delimiters[i]
		}

		sentence := strings.TrimSpace(part + delimiter)
		if sentence != "" {
			result = append(result, sentence)
		}
	}

	return result
}

func (s *Splitter) pack(sentences []string) []string {
	var (
		chunks  []string
		current string
	)

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	for _, sentence := range sentences {
		for _, piece := range EnsureSafeTokenLength(sentence, s.maxChars) {
			switch {
			case current == "":
				current = piece
			case runeLen(current)+1+runeLen(piece) <= s.maxChars:
				current += " " + piece
			default:
				flush()

				current = piece
			}

			if terminalPattern.MatchString(current) {
				flush()
			}
		}
	}

	flush()

	return chunks
}

// EnsureSafeTokenLength splits chunk into pieces of at most maxTokens
// characters. Comma boundaries are preferred; pieces that still do not fit
// are cut at the last space inside the budget, or mid-word when there is none.
func EnsureSafeTokenLength(chunk string, maxTokens int) []string {
	if maxTokens < 1 {
		maxTokens = 1
	}

	if strings.TrimSpace(chunk) == "" {
		return nil
	}

	if runeLen(chunk) <= maxTokens {
		return []string{chunk}
	}

	var (
		chunks  []string
		current string
	)

	for _, piece := range strings.SplitAfter(chunk, ",") {
		if runeLen(current+piece) <= maxTokens {
			current += piece

			continue
		}

		chunks = appendTrimmed(chunks, current)
		current = ""

		if runeLen(piece) <= maxTokens {
			current = piece

			continue
		}

		chunks = append(chunks, sliceAtSpaces(piece, maxTokens)...)
	}

	return appendTrimmed(chunks, current)
}

// sliceAtSpaces hard-slices text into pieces of at most maxTokens runes.
func sliceAtSpaces(text string, maxTokens int) []string {
	var chunks []string

	runes := []rune(strings.TrimSpace(text))

	for len(runes) > maxTokens {
		cut, skip := maxTokens, 0

		for i := maxTokens; i > 0; i-- {
			if unicode.IsSpace(runes[i]) {
				cut, skip = i, 1

				break
			}
		}

		chunks = appendTrimmed(chunks, string(runes[:cut]))
		runes = []rune(strings.TrimLeftFunc(string(runes[cut+skip:]), unicode.IsSpace))
	}

	return appendTrimmed(chunks, string(runes))
}

func appendTrimmed(chunks []string, chunk string) []string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return chunks
	}

	return append(chunks, chunk)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
