package language_test

import (
	"testing"

	"github.com/book-expert/phonemizer/internal/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCode(t *testing.T) {
	t.Parallel()

	for _, hint := range []string{"a", "b", "h", "e", "f", "z"} {
		code, err := language.ParseCode(hint)
		require.NoError(t, err, hint)
		assert.Equal(t, hint, code.String())
	}

	for _, hint := range []string{"", "x", "ab", "A"} {
		_, err := language.ParseCode(hint)
		require.ErrorIs(t, err, language.ErrUnknownLanguage, hint)
	}
}

func TestLookupVoice(t *testing.T) {
	t.Parallel()

	voice, err := language.LookupVoice("hf_alpha")
	require.NoError(t, err)
	assert.Equal(t, language.CodeHindi, voice.Language())
	assert.Equal(t, "female", voice.Gender)

	voice, err = language.LookupVoice("bm_george")
	require.NoError(t, err)
	assert.Equal(t, language.CodeBritishEnglish, voice.Language())
	assert.Equal(t, "male", voice.Gender)

	_, err = language.LookupVoice("xx_nobody")
	require.ErrorIs(t, err, language.ErrUnknownVoice)
}

func TestVoices_AreSortedAndValid(t *testing.T) {
	t.Parallel()

	voices := language.Voices()
	require.NotEmpty(t, voices)

	for i, voice := range voices {
		assert.True(t, voice.Language().Valid(), voice.ID)

		if i > 0 {
			assert.Less(t, voices[i-1].ID, voice.ID)
		}
	}
}

func TestScheme_BackendTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "en-us", language.EnglishUS.BackendTag())
	assert.Equal(t, "en", language.EnglishGB.BackendTag())
	assert.Equal(t, "fr-fr", language.French.BackendTag())
	assert.Equal(t, "cmn", language.Chinese.BackendTag())

	assert.True(t, language.Devanagari.IsHindi())
	assert.True(t, language.Hinglish.IsHindi())
	assert.False(t, language.Spanish.IsHindi())
	assert.False(t, language.Spanish.UsesBackend())
	assert.True(t, language.French.UsesBackend())
}
