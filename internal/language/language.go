// Package language resolves the phoneme scheme used for a phonemization call
// from a voice identifier, a language hint and the text itself.
package language

import (
	"errors"
	"fmt"
	"sort"
)

// Code is the single-character language hint carried by the first letter of
// a voice identifier.
type Code byte

// Supported language codes.
const (
	CodeAmericanEnglish Code = 'a'
	CodeBritishEnglish  Code = 'b'
	CodeHindi           Code = 'h'
	CodeSpanish         Code = 'e'
	CodeFrench          Code = 'f'
	CodeChinese         Code = 'z'
)

var (
	// ErrUnknownLanguage is returned for a hint outside the supported codes.
	ErrUnknownLanguage = errors.New("unknown language code")
	// ErrUnknownVoice is returned for a voice identifier missing from the registry.
	ErrUnknownVoice = errors.New("unknown voice")
)

var codeNames = map[Code]string{
	CodeAmericanEnglish: "American English",
	CodeBritishEnglish:  "British English",
	CodeHindi:           "Hindi",
	CodeSpanish:         "Spanish",
	CodeFrench:          "French",
	CodeChinese:         "Chinese",
}

// ParseCode validates a one-character language hint.
func ParseCode(hint string) (Code, error) {
	if len(hint) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLanguage, hint)
	}

	code := Code(hint[0])
	if !code.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLanguage, hint)
	}

	return code, nil
}

// Valid reports whether c is one of the supported codes.
func (c Code) Valid() bool {
	_, ok := codeNames[c]

	return ok
}

// String returns the one-character form of the code.
func (c Code) String() string {
	return string(rune(c))
}

// Name returns a human-readable language name.
func (c Code) Name() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return "unknown"
}

// IsEnglish reports whether the code selects one of the English variants.
func (c Code) IsEnglish() bool {
	return c == CodeAmericanEnglish || c == CodeBritishEnglish
}

// Voice is an entry of the voice registry. The style vector itself lives in
// the external voice store; only the identifier is known here.
type Voice struct {
	ID     string
	Gender string
}

// Language returns the language code carried by the voice identifier.
func (v Voice) Language() Code {
	return Code(v.ID[0])
}

// voiceIDs lists every voice the synthesis model ships for the supported
// languages. The second letter is the gender (f or m).
var voiceIDs = []string{
	"af_heart", "af_alloy", "af_aoede", "af_bella", "af_jessica", "af_kore",
	"af_nicole", "af_nova", "af_river", "af_sarah", "af_sky",
	"am_adam", "am_echo", "am_eric", "am_fenrir", "am_liam", "am_michael",
	"am_onyx", "am_puck", "am_santa",
	"bf_alice", "bf_emma", "bf_isabella", "bf_lily",
	"bm_daniel", "bm_fable", "bm_george", "bm_lewis",
	"hf_alpha", "hf_beta", "hm_omega", "hm_psi",
	"ef_dora", "em_alex", "em_santa",
	"ff_siwis",
	"zf_xiaobei", "zf_xiaoni", "zf_xiaoxiao", "zf_xiaoyi",
	"zm_yunjian", "zm_yunxi", "zm_yunxia", "zm_yunyang",
}

var voices = buildRegistry(voiceIDs)

func buildRegistry(ids []string) map[string]Voice {
	registry := make(map[string]Voice, len(ids))

	for _, id := range ids {
		gender := "female"
		if id[1] == 'm' {
			gender = "male"
		}

		registry[id] = Voice{ID: id, Gender: gender}
	}

	return registry
}

// LookupVoice returns the registry entry for id. An unknown voice is a
// configuration error and is reported instead of being guessed at.
func LookupVoice(id string) (Voice, error) {
	voice, ok := voices[id]
	if !ok {
		return Voice{}, fmt.Errorf("%w: %q", ErrUnknownVoice, id)
	}

	return voice, nil
}

// Voices returns every registered voice sorted by identifier.
func Voices() []Voice {
	list := make([]Voice, 0, len(voices))
	for _, voice := range voices {
		list = append(list, voice)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list
}
