package phoneme_test

import (
	"testing"

	"github.com/book-expert/phonemizer/internal/language"
	"github.com/book-expert/phonemizer/internal/phoneme"
	"github.com/stretchr/testify/assert"
)

func TestPostProcess(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		scheme   language.Scheme
		hint     language.Code
		expected string
	}{
		{"product name", "kəkˈoːɹoʊ", language.EnglishUS, language.CodeAmericanEnglish, "kˈoʊkəɹoʊ"},
		{"british product name", "kəkˈɔːɹəʊ", language.EnglishGB, language.CodeBritishEnglish, "kˈəʊkəɹəʊ"},
		{"semivowel", "ʲuː", language.EnglishGB, language.CodeBritishEnglish, "juː"},
		{"rhotic", "rɛd", language.EnglishGB, language.CodeBritishEnglish, "ɹɛd"},
		{"velar fricative", "lɔx", language.EnglishGB, language.CodeBritishEnglish, "lɔk"},
		{"lateral fricative", "ɬan", language.EnglishGB, language.CodeBritishEnglish, "lan"},
		{"hundred spacing", "wʌnhˈʌndɹɪd", language.EnglishGB, language.CodeBritishEnglish, "wʌn hˈʌndɹɪd"},
		{"trailing z before punctuation", "bɑks z.", language.EnglishGB, language.CodeBritishEnglish, "bɑksz."},
		{"trailing z at end", "kæt z", language.EnglishGB, language.CodeBritishEnglish, "kætz"},
		{"repeated trailing z", "a z z.", language.EnglishGB, language.CodeBritishEnglish, "azz."},
		{"aspirate merge", "pɦal", language.EnglishUS, language.CodeHindi, "pʰal"},
		{"breathy merge", "bɦaːi", language.EnglishUS, language.CodeHindi, "bʱaːi"},
		{"dental breathy merge", "d̪ɦ", language.EnglishUS, language.CodeHindi, "d̪ʱ"},
		{"double aspiration", "kʰʰ", language.EnglishUS, language.CodeHindi, "kʰ"},
		{"space before length", "a ːb", language.EnglishUS, language.CodeHindi, "aːb"},
		{"double length", "aːː", language.EnglishUS, language.CodeHindi, "aː"},
		{"no hindi fixes for english", "pɦal", language.EnglishUS, language.CodeAmericanEnglish, "pɦal"},
		{"kaun", "kaʊn", language.Hinglish, language.CodeHindi, "kɔːn"},
		{"ho", "tum hoʊ", language.Hinglish, language.CodeHindi, "tum hoː"},
		{"initial schwa before rhotic", "pəriː", language.Hinglish, language.CodeHindi, "pɹiː"},
		{"intervocalic rhotic", "meːraː", language.Devanagari, language.CodeAmericanEnglish, "meːɾaː"},
		{"aspirate spacing", "d̪ʱɦaː", language.Hinglish, language.CodeHindi, "d̪ʱ ɦaː"},
		{"tense vowel before cluster", "sost̪ bʊl", language.Hinglish, language.CodeHindi, "soːst̪ bʊl"},
		{"hindi scheme fixes need the scheme", "kaʊn", language.EnglishUS, language.CodeHindi, "kaʊn"},
		{"ninety", "nˈaɪnti", language.EnglishUS, language.CodeAmericanEnglish, "nˈaɪndi"},
		{"nineteen", "nˈaɪntiːn", language.EnglishUS, language.CodeAmericanEnglish, "nˈaɪntiːn"},
		{"ninety british", "nˈaɪnti", language.EnglishGB, language.CodeBritishEnglish, "nˈaɪnti"},
		{"trimmed", "  ə  ", language.EnglishGB, language.CodeBritishEnglish, "ə"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, phoneme.PostProcess(tc.input, tc.scheme, tc.hint))
		})
	}
}
