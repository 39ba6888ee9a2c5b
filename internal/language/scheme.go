package language

// Scheme is the phonemization strategy chosen for one call.
type Scheme int

// Phonemization schemes.
const (
	EnglishUS Scheme = iota
	EnglishGB
	Devanagari
	Hinglish
	Spanish
	French
	Chinese
)

var schemeNames = map[Scheme]string{
	EnglishUS:  "en-us",
	EnglishGB:  "en-gb",
	Devanagari: "devanagari",
	Hinglish:   "hinglish",
	Spanish:    "spanish",
	French:     "french",
	Chinese:    "chinese",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}

	return "unknown"
}

// IsHindi reports whether the scheme produces Hindi phonemes, either from
// Devanagari script or from Latin-script Hinglish.
func (s Scheme) IsHindi() bool {
	return s == Devanagari || s == Hinglish
}

// UsesBackend reports whether the scheme is served by the external g2p
// backend rather than a phoneme table.
func (s Scheme) UsesBackend() bool {
	switch s {
	case EnglishUS, EnglishGB, French, Chinese:
		return true
	default:
		return false
	}
}

// BackendTag returns the language tag passed to the g2p backend.
func (s Scheme) BackendTag() string {
	switch s {
	case EnglishGB:
		return "en"
	case French:
		return "fr-fr"
	case Chinese:
		return "cmn"
	default:
		return "en-us"
	}
}

// SchemeFor maps a language code to its scheme without looking at the text.
func SchemeFor(code Code) Scheme {
	switch code {
	case CodeBritishEnglish:
		return EnglishGB
	case CodeHindi:
		return Hinglish
	case CodeSpanish:
		return Spanish
	case CodeFrench:
		return French
	case CodeChinese:
		return Chinese
	default:
		return EnglishUS
	}
}
