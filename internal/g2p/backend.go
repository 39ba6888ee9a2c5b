// Package g2p adapts an external grapheme-to-phoneme library to the
// segment-at-a-time contract used by the phonemizer.
package g2p

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/book-expert/logger"
	"github.com/neurlang/goruut/lib"
	"github.com/neurlang/goruut/models/requests"
)

var (
	// ErrBackendFailed indicates that the backend produced no usable output.
	ErrBackendFailed = errors.New("g2p backend failed")
	// ErrUnsupportedTag indicates a language tag the backend has no model for.
	ErrUnsupportedTag = errors.New("unsupported language tag")
)

// Backend converts text into one phoneme string per word.
type Backend interface {
	Phonemize(ctx context.Context, text, languageTag string) ([]string, error)
}

var goruutLanguages = map[string]string{
	"en-us": "English",
	"en":    "EnglishBritish",
	"fr-fr": "French",
	"cmn":   "ChineseMandarin",
}

// Goruut is a Backend backed by the goruut phonemizer models.
type Goruut struct {
	phonemizer *lib.Phonemizer
}

// NewGoruut loads the embedded goruut models.
func NewGoruut() *Goruut {
	return &Goruut{phonemizer: lib.NewPhonemizer(nil)}
}

// Phonemize runs one sentence through goruut. A panic inside the library is
// reported as ErrBackendFailed.
func (g *Goruut) Phonemize(ctx context.Context, text, languageTag string) (words []string, err error) {
	language, ok := goruutLanguages[languageTag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTag, languageTag)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("g2p cancelled: %w", ctxErr)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			words = nil
			err = fmt.Errorf("%w: %v", ErrBackendFailed, recovered)
		}
	}()

	resp := g.phonemizer.Sentence(requests.PhonemizeSentence{
		Language: language,
		Sentence: text,
	})

	for _, word := range resp.Words {
		if word.Phonetic != "" {
			words = append(words, word.Phonetic)
		}
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no words for %q", ErrBackendFailed, text)
	}

	return words, nil
}

// Adapter turns backend failures into pass-through so a single bad segment
// never aborts a phonemization call.
type Adapter struct {
	backend Backend
	log     *logger.Logger
}

// NewAdapter creates an Adapter around backend.
func NewAdapter(backend Backend, log *logger.Logger) *Adapter {
	return &Adapter{backend: backend, log: log}
}

// PhonemizeSegment returns the backend's words joined by single spaces, or
// text unchanged when the backend fails.
func (a *Adapter) PhonemizeSegment(ctx context.Context, text, languageTag string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	words, err := a.backend.Phonemize(ctx, text, languageTag)
	if err != nil {
		a.log.Warn("g2p backend failed for %q (%s), passing text through: %v", text, languageTag, err)

		return text
	}

	return strings.Join(words, " ")
}
