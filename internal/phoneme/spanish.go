package phoneme

import (
	"regexp"
	"strings"
)

const stressMark = "ˈ"

var spanishWord = regexp.MustCompile(`[a-záéíóúüñ]+`)

var spanishLetters = map[rune]string{
	'b': "b", 'c': "k", 'd': "d", 'f': "f", 'g': "ɡ", 'h': "",
	'j': "x", 'k': "k", 'l': "l", 'm': "m", 'n': "n", 'ñ': "ɲ",
	'p': "p", 'q': "k", 'r': "ɾ", 's': "s", 't': "t", 'v': "b",
	'w': "w", 'x': "ks", 'y': "ʝ", 'z': "θ",
}

// spanishVowels maps every written vowel to its sound and whether it carries
// a written accent.
var spanishVowels = map[rune]struct {
	ipa    string
	accent bool
	weak   bool
}{
	'a': {"a", false, false}, 'e': {"e", false, false},
	'i': {"i", false, true}, 'o': {"o", false, false},
	'u': {"u", false, true}, 'ü': {"u", false, true},
	'á': {"a", true, false}, 'é': {"e", true, false},
	'í': {"i", true, false}, 'ó': {"o", true, false},
	'ú': {"u", true, false},
}

// spanishToken extends token with what the stress rules need.
type spanishToken struct {
	token
	accent bool
	weak   bool
}

// Spanish phonemizes Castilian Spanish.
type Spanish struct{}

// NewSpanish returns the Spanish engine.
func NewSpanish() *Spanish {
	return &Spanish{}
}

// PhonemizeSegment lowercases text and converts each word, adding a stress
// mark on words with more than one syllable or a written accent.
func (s *Spanish) PhonemizeSegment(text string) string {
	return spanishWord.ReplaceAllStringFunc(strings.ToLower(text), phonemizeSpanishWord)
}

func phonemizeSpanishWord(word string) string {
	letters := []rune(word)
	tokens := spanishTokens(letters)
	stressed := spanishStress(letters, tokens)

	var out strings.Builder

	for i, tok := range tokens {
		if i == stressed {
			out.WriteString(stressMark)
		}

		out.WriteString(tok.ipa)
	}

	return out.String()
}

func spanishTokens(letters []rune) []spanishToken {
	tokens := make([]spanishToken, 0, len(letters))
	at := func(i int) rune {
		if i < len(letters) {
			return letters[i]
		}

		return 0
	}
	consonant := func(ipa string) spanishToken {
		return spanishToken{token: token{ipa: ipa}}
	}

	for i := 0; i < len(letters); i++ {
		r, next := letters[i], at(i+1)

		switch {
		case r == 'c' && next == 'h':
			tokens = append(tokens, consonant("tʃ"))
			i++
		case r == 'l' && next == 'l':
			tokens = append(tokens, consonant("ʝ"))
			i++
		case r == 'r' && next == 'r':
			tokens = append(tokens, consonant("r"))
			i++
		case r == 'q' && next == 'u':
			tokens = append(tokens, consonant("k"))
			i++
		case r == 'g' && next == 'u' && isFrontVowel(at(i+2)):
			tokens = append(tokens, consonant("ɡ"))
			i++
		case r == 'g' && next == 'ü':
			tokens = append(tokens, consonant("ɡ"), consonant("w"))
			i++
		case r == 'c' && isFrontVowel(next):
			tokens = append(tokens, consonant("θ"))
		case r == 'g' && isFrontVowel(next):
			tokens = append(tokens, consonant("x"))
		case r == 'r' && (i == 0 || strings.ContainsRune("nls", at(i-1))):
			tokens = append(tokens, consonant("r"))
		case r == 'y' && i == len(letters)-1:
			tokens = append(tokens, spanishToken{token: token{ipa: "i", vowel: true}, weak: true})
		default:
			tokens = append(tokens, spanishLetter(r))
		}
	}

	return tokens
}

func spanishLetter(r rune) spanishToken {
	if v, ok := spanishVowels[r]; ok {
		return spanishToken{token: token{ipa: v.ipa, vowel: true}, accent: v.accent, weak: v.weak}
	}

	if ipa, ok := spanishLetters[r]; ok {
		return spanishToken{token: token{ipa: ipa}}
	}

	return spanishToken{token: token{ipa: string(r)}}
}

func isFrontVowel(r rune) bool {
	return strings.ContainsRune("eéií", r)
}

// spanishStress returns the index of the token that receives the stress
// mark, or -1 when none is written.
func spanishStress(letters []rune, tokens []spanishToken) int {
	for i, tok := range tokens {
		if tok.accent {
			return i
		}
	}

	nuclei := spanishNuclei(tokens)
	if len(nuclei) < 2 {
		return -1
	}

	target := nuclei[len(nuclei)-1]
	if strings.ContainsRune("aeiouáéíóúns", letters[len(letters)-1]) {
		target = nuclei[len(nuclei)-2]
	}

	return target
}

// spanishNuclei groups vowel tokens into syllable nuclei and returns, for
// each nucleus, the index of the vowel that carries its stress. A weak
// vowel next to another vowel joins its syllable; two strong vowels split.
func spanishNuclei(tokens []spanishToken) []int {
	var nuclei []int

	prevVowel := -1

	for i, tok := range tokens {
		if !tok.vowel {
			if tok.ipa != "" {
				prevVowel = -1
			}

			continue
		}

		if prevVowel >= 0 && (tok.weak || tokens[prevVowel].weak) {
			if tokens[nuclei[len(nuclei)-1]].weak && !tok.weak {
				nuclei[len(nuclei)-1] = i
			}

			prevVowel = i

			continue
		}

		nuclei = append(nuclei, i)
		prevVowel = i
	}

	return nuclei
}
