package phonemizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/book-expert/phonemizer/internal/core"
	"github.com/book-expert/phonemizer/internal/language"
	"github.com/book-expert/phonemizer/internal/text"
)

// ErrEmptyDocument is returned when the input has no speakable text.
var ErrEmptyDocument = errors.New("document has no text")

// Chunk is one synthesis-sized piece of a document.
type Chunk struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Phonemes string `json:"phonemes"`
}

// Document is the phoneme document stored for downstream synthesis.
type Document struct {
	Voice    string  `json:"voice"`
	Language string  `json:"language"`
	Chunks   []Chunk `json:"chunks"`
}

// DocumentProcessor implements core.PhonemeProcessor.
type DocumentProcessor struct {
	phonemizer *Phonemizer
	defaults   core.PhonemizeConfig
}

// NewDocumentProcessor returns a processor that fills an empty voice and an
// unset chunk size from defaults.
func NewDocumentProcessor(phonemizer *Phonemizer, defaults core.PhonemizeConfig) *DocumentProcessor {
	return &DocumentProcessor{phonemizer: phonemizer, defaults: defaults}
}

// GetConfig returns the default job configuration.
func (d *DocumentProcessor) GetConfig() core.PhonemizeConfig {
	return d.defaults
}

// Build splits input into chunks and phonemizes each one with the voice's
// language. Normalization runs on the whole document before splitting, so
// honorifics such as "Dr." are expanded before their period can end a chunk,
// and chunk texts carry the normalized wording.
func (d *DocumentProcessor) Build(ctx context.Context, input string, cfg core.PhonemizeConfig) (*Document, error) {
	cfg = d.withDefaults(cfg)

	voice, err := language.LookupVoice(cfg.Voice)
	if err != nil {
		return nil, err
	}

	if cfg.Normalize {
		input = d.phonemizer.Normalize(input)
	}

	pieces := text.NewSplitter(cfg.MaxChunkChars).Split(input)
	if len(pieces) == 0 {
		return nil, ErrEmptyDocument
	}

	doc := &Document{
		Voice:    voice.ID,
		Language: voice.Language().Name(),
		Chunks:   make([]Chunk, 0, len(pieces)),
	}

	for i, piece := range pieces {
		// Normalization already ran on the whole document.
		phonemes, phonemizeErr := d.phonemizer.Phonemize(ctx, piece, voice.Language(), false)
		if phonemizeErr != nil {
			return nil, fmt.Errorf("failed to phonemize chunk %d: %w", i, phonemizeErr)
		}

		doc.Chunks = append(doc.Chunks, Chunk{Index: i, Text: piece, Phonemes: phonemes})
	}

	return doc, nil
}

// Process builds the document for a raw text blob and encodes it as JSON.
func (d *DocumentProcessor) Process(ctx context.Context, data []byte, cfg core.PhonemizeConfig) (*core.PhonemeResult, error) {
	doc, err := d.Build(ctx, string(data), cfg)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal phoneme document: %w", err)
	}

	return &core.PhonemeResult{Data: encoded, ChunkCount: len(doc.Chunks)}, nil
}

func (d *DocumentProcessor) withDefaults(cfg core.PhonemizeConfig) core.PhonemizeConfig {
	if cfg.Voice == "" {
		cfg.Voice = d.defaults.Voice
	}

	if cfg.MaxChunkChars <= 0 {
		cfg.MaxChunkChars = d.defaults.MaxChunkChars
	}

	return cfg
}
