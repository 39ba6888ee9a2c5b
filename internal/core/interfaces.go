// Package core defines the interfaces shared by the phonemizer service parts.
package core

import "context"

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// PhonemizeConfig holds the settings for a single phonemization job.
// Zero values fall back to the processor defaults.
type PhonemizeConfig struct {
	Voice         string
	Normalize     bool
	MaxChunkChars int
}

// PhonemeResult is the encoded output of one job.
type PhonemeResult struct {
	Data       []byte
	ChunkCount int
}

// PhonemeProcessor turns a text document into a phoneme document.
type PhonemeProcessor interface {
	Process(ctx context.Context, text []byte, cfg PhonemizeConfig) (*PhonemeResult, error)
	GetConfig() PhonemizeConfig
}
