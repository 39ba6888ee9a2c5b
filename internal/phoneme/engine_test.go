package phoneme_test

import (
	"testing"

	"github.com/book-expert/phonemizer/internal/phoneme"
	"github.com/stretchr/testify/assert"
)

type engineCase struct {
	input    string
	expected string
}

func runEngineTests(t *testing.T, engine phoneme.Engine, cases []engineCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, engine.PhonemizeSegment(tc.input))
		})
	}
}

func TestDevanagari(t *testing.T) {
	t.Parallel()

	runEngineTests(t, phoneme.NewDevanagari(), []engineCase{
		{"नमस्ते", "nəməst̪eː"},
		{"भारत", "bʱaːrət̪"},
		{"क्या", "kjaː"},
		{"संत", "sənt̪"},
		{"हाँ", "ɦaː̃"},
		{"ज़िंदगी", "zɪnd̪əɡiː"},
		{"नमस्ते।", "nəməst̪eː."},
		{"१२३", "123"},
		{"abc नमस्ते", "abc nəməst̪eː"},
	})
}

func TestHinglish(t *testing.T) {
	t.Parallel()

	runEngineTests(t, phoneme.NewHinglish(), []engineCase{
		{"namaste", "nəmˈəsteː"},
		{"Kya", "kjaː"},
		{"ladki", "ləd̪kiː"},
		{"wahaan", "ʋəɦãː"},
		{"jaan", "dʒaːn"},
		{"dilawar", "d̪ɪləʋr"},
		{"kamal", "kəməl"},
		{"123 ok!", "123 oːk!"},
	})
}

func TestSpanish(t *testing.T) {
	t.Parallel()

	runEngineTests(t, phoneme.NewSpanish(), []engineCase{
		{"hola", "ˈola"},
		{"perro", "pˈero"},
		{"pero", "pˈeɾo"},
		{"rosa", "rˈosa"},
		{"honra", "ˈonra"},
		{"chico", "tʃˈiko"},
		{"llama", "ʝˈama"},
		{"cielo", "θiˈelo"},
		{"ciudad", "θiudˈad"},
		{"canción", "kanθiˈon"},
		{"guerra", "ɡˈera"},
		{"gente", "xˈente"},
		{"niño", "nˈiɲo"},
		{"jamón", "xamˈon"},
		{"hablar", "ablˈaɾ"},
		{"España", "espˈaɲa"},
		{"¿Qué tal?", "¿kˈe tal?"},
		{"y", "i"},
	})
}

func TestEngines_NeverFailOnOddInput(t *testing.T) {
	t.Parallel()

	engines := []phoneme.Engine{phoneme.NewDevanagari(), phoneme.NewHinglish(), phoneme.NewSpanish()}
	inputs := []string{"", " ", "्", "़", "ँ", "क़", "ÀÉÎ", "😀", "a\x00b", "\xff\xfe", "rr", "qu", "g"}

	for _, engine := range engines {
		for _, input := range inputs {
			assert.NotPanics(t, func() { engine.PhonemizeSegment(input) }, "%T %q", engine, input)
		}
	}
}
