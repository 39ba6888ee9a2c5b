// Package phoneme holds the deterministic phoneme-table engines and the
// post-processor that cleans up phoneme strings before tokenization.
//
// Every engine is total: characters and words missing from a table are
// passed through unchanged and no input ever produces an error.
package phoneme

// Engine converts one content segment into phonemes.
type Engine interface {
	PhonemizeSegment(text string) string
}

// token is one emitted phoneme together with its class.
type token struct {
	ipa   string
	vowel bool
}

func joinTokens(tokens []token) string {
	size := 0
	for _, tok := range tokens {
		size += len(tok.ipa)
	}

	buf := make([]byte, 0, size)
	for _, tok := range tokens {
		buf = append(buf, tok.ipa...)
	}

	return string(buf)
}

