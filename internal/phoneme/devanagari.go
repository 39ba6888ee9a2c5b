package phoneme

import (
	"strings"

	"github.com/book-expert/phonemizer/internal/language"
	"golang.org/x/text/unicode/norm"
)

const (
	nukta        = '़'
	virama       = '्'
	anusvara     = 'ं'
	chandrabindu = 'ँ'
	visarga      = 'ः'
	nasalTilde   = "̃"
)

var devanagariConsonants = map[rune]string{
	'क': "k", 'ख': "kʰ", 'ग': "ɡ", 'घ': "ɡʱ", 'ङ': "ŋ",
	'च': "tʃ", 'छ': "tʃʰ", 'ज': "dʒ", 'झ': "dʒʱ", 'ञ': "ɲ",
	'ट': "ʈ", 'ठ': "ʈʰ", 'ड': "ɖ", 'ढ': "ɖʱ", 'ण': "ɳ",
	'त': "t̪", 'थ': "t̪ʰ", 'द': "d̪", 'ध': "d̪ʱ", 'न': "n",
	'प': "p", 'फ': "pʰ", 'ब': "b", 'भ': "bʱ", 'म': "m",
	'य': "j", 'र': "r", 'ल': "l", 'ळ': "ɭ", 'व': "ʋ",
	'श': "ʃ", 'ष': "ʂ", 'स': "s", 'ह': "ɦ",
	'ऩ': "n", 'ऱ': "r", 'ऴ': "ɭ",
}

// Consonants whose sound changes when followed by a nukta.
var devanagariNukta = map[rune]string{
	'क': "q", 'ख': "x", 'ग': "ɣ", 'ज': "z",
	'ड': "ɽ", 'ढ': "ɽʱ", 'फ': "f", 'य': "j",
}

var devanagariVowels = map[rune]string{
	'अ': "ə", 'आ': "aː", 'इ': "ɪ", 'ई': "iː", 'उ': "ʊ", 'ऊ': "uː",
	'ऋ': "rɪ", 'ए': "eː", 'ऐ': "ɛː", 'ओ': "oː", 'औ': "ɔː",
	'ऑ': "ɔ", 'ऍ': "ɛ",
}

var devanagariMatras = map[rune]string{
	'ा': "aː", 'ि': "ɪ", 'ी': "iː", 'ु': "ʊ", 'ू': "uː", 'ृ': "rɪ",
	'े': "eː", 'ै': "ɛː", 'ो': "oː", 'ौ': "ɔː", 'ॉ': "ɔ", 'ॅ': "ɛ",
}

var devanagariSigns = map[rune]string{
	anusvara:     "n",
	chandrabindu: nasalTilde,
	visarga:      "h",
	'।':          ".",
	'॥':          ".",
	'ॐ':          "oːm",
}

// Devanagari maps Hindi script to phonemes one character at a time.
type Devanagari struct{}

// NewDevanagari returns the Devanagari engine.
func NewDevanagari() *Devanagari {
	return &Devanagari{}
}

// PhonemizeSegment converts text, inserting the inherent vowel after a
// consonant unless a vowel sign, a virama or the end of the word follows.
func (d *Devanagari) PhonemizeSegment(text string) string {
	runes := []rune(norm.NFC.String(text))

	var out strings.Builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if ipa, ok := devanagariConsonants[r]; ok {
			if i+1 < len(runes) && runes[i+1] == nukta {
				if alt, hasAlt := devanagariNukta[r]; hasAlt {
					ipa = alt
				}
				i++
			}

			out.WriteString(ipa)

			if i+1 < len(runes) && runes[i+1] == virama {
				i++

				continue
			}

			if takesInherentVowel(runes, i+1) {
				out.WriteString("ə")
			}

			continue
		}

		out.WriteString(devanagariRune(r))
	}

	return out.String()
}

func devanagariRune(r rune) string {
	if ipa, ok := devanagariMatras[r]; ok {
		return ipa
	}

	if ipa, ok := devanagariVowels[r]; ok {
		return ipa
	}

	if ipa, ok := devanagariSigns[r]; ok {
		return ipa
	}

	if r >= '०' && r <= '९' {
		return string('0' + (r - '०'))
	}

	if r == nukta || r == virama {
		return ""
	}

	return string(r)
}

// takesInherentVowel reports whether the rune at next continues the word
// without supplying its own vowel.
func takesInherentVowel(runes []rune, next int) bool {
	if next >= len(runes) {
		return false
	}

	r := runes[next]
	if _, ok := devanagariMatras[r]; ok {
		return false
	}

	switch r {
	case virama, '।', '॥':
		return false
	case anusvara, chandrabindu, visarga:
		return true
	}

	return language.InDevanagariBlock(r) && !isDevanagariDigit(r)
}

func isDevanagariDigit(r rune) bool {
	return r >= '०' && r <= '९'
}
