// Package phonemizer wires normalization, routing, the phoneme engines and
// post-processing into a single text-to-phonemes call.
package phonemizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/book-expert/phonemizer/internal/g2p"
	"github.com/book-expert/phonemizer/internal/language"
	"github.com/book-expert/phonemizer/internal/phoneme"
	"github.com/book-expert/phonemizer/internal/text"
)

// Phonemizer is safe for concurrent use; all of its tables are read-only.
type Phonemizer struct {
	normalizer *text.Normalizer
	engines    map[language.Scheme]phoneme.Engine
	backend    *g2p.Adapter
}

// New builds the normalizer and the table engines. backend serves the
// schemes without a table; when it is nil those segments pass through.
func New(backend *g2p.Adapter) *Phonemizer {
	return &Phonemizer{
		normalizer: text.NewNormalizer(),
		engines: map[language.Scheme]phoneme.Engine{
			language.Devanagari: phoneme.NewDevanagari(),
			language.Hinglish:   phoneme.NewHinglish(),
			language.Spanish:    phoneme.NewSpanish(),
		},
		backend: backend,
	}
}

// Phonemize converts input into a phoneme string for the language code.
// Only an invalid code is an error; unconvertible text is passed through.
func (p *Phonemizer) Phonemize(ctx context.Context, input string, code language.Code, normalize bool) (string, error) {
	if !code.Valid() {
		return "", fmt.Errorf("%w: %q", language.ErrUnknownLanguage, code.String())
	}

	if normalize {
		input = p.normalizer.Normalize(input)
	}

	scheme := language.SelectScheme(input, code)

	var out strings.Builder

	for _, segment := range text.SplitSegments(input) {
		if segment.Delimiter {
			out.WriteString(segment.Text)

			continue
		}

		out.WriteString(p.phonemizeSegment(ctx, segment.Text, scheme))
	}

	return phoneme.PostProcess(out.String(), scheme, code), nil
}

// PhonemizeVoice resolves the language from a voice identifier.
func (p *Phonemizer) PhonemizeVoice(ctx context.Context, input, voiceID string, normalize bool) (string, error) {
	voice, err := language.LookupVoice(voiceID)
	if err != nil {
		return "", err
	}

	return p.Phonemize(ctx, input, voice.Language(), normalize)
}

// Normalize exposes the text normalizer on its own.
func (p *Phonemizer) Normalize(input string) string {
	return p.normalizer.Normalize(input)
}

func (p *Phonemizer) phonemizeSegment(ctx context.Context, segment string, scheme language.Scheme) string {
	if engine, ok := p.engines[scheme]; ok {
		return engine.PhonemizeSegment(segment)
	}

	if p.backend == nil {
		return segment
	}

	return p.backend.PhonemizeSegment(ctx, segment, scheme.BackendTag())
}
