package text_test

import (
	"testing"

	"github.com/book-expert/phonemizer/internal/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSegments_Alternates(t *testing.T) {
	t.Parallel()

	segments := text.SplitSegments("Hello, world! How are you")

	require.Equal(t, []text.Segment{
		{Delimiter: false, Text: "Hello"},
		{Delimiter: true, Text: ", "},
		{Delimiter: false, Text: "world"},
		{Delimiter: true, Text: "! "},
		{Delimiter: false, Text: "How are you"},
	}, segments)
}

func TestSplitSegments_IsLossless(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain",
		"...",
		"  leading and trailing  ",
		"«Quoted», she said — then left…",
		"¿Qué tal? ¡Muy bien!",
		"नमस्ते, आप कैसे हैं?",
		"a;b:c,d.e!f?g(h)i{j}k[l]m",
		"\n\tspaced ,  out .\n",
	}

	for _, input := range inputs {
		assert.Equal(t, input, text.JoinSegments(text.SplitSegments(input)), "input %q", input)
	}
}

func TestSplitSegments_NoEmptySegments(t *testing.T) {
	t.Parallel()

	for _, segment := range text.SplitSegments(", a , b ,") {
		assert.NotEmpty(t, segment.Text)
	}
}
