package phoneme

import (
	"regexp"
	"strings"
)

var hinglishWord = regexp.MustCompile(`[A-Za-z]+`)

var hinglishDigraphs = map[string]token{
	"aa": {"aː", true}, "ee": {"iː", true}, "ii": {"iː", true},
	"oo": {"uː", true}, "uu": {"uː", true}, "ai": {"ɛː", true},
	"au": {"ɔː", true}, "ou": {"ɔː", true}, "ei": {"eː", true},
	"kh": {"kʰ", false}, "gh": {"ɡʱ", false}, "ch": {"tʃ", false},
	"jh": {"dʒʱ", false}, "th": {"t̪ʰ", false}, "dh": {"d̪ʱ", false},
	"ph": {"pʰ", false}, "bh": {"bʱ", false}, "sh": {"ʃ", false},
	"ng": {"ŋ", false}, "ny": {"ɲ", false}, "ck": {"k", false},
	"zh": {"ʒ", false},
}

var hinglishLetters = map[byte]token{
	'a': {"ə", true}, 'e': {"eː", true}, 'i': {"ɪ", true},
	'o': {"oː", true}, 'u': {"ʊ", true},
	'b': {"b", false}, 'c': {"k", false}, 'd': {"d̪", false},
	'f': {"f", false}, 'g': {"ɡ", false}, 'h': {"ɦ", false},
	'j': {"dʒ", false}, 'k': {"k", false}, 'l': {"l", false},
	'm': {"m", false}, 'n': {"n", false}, 'p': {"p", false},
	'q': {"q", false}, 'r': {"r", false}, 's': {"s", false},
	't': {"t̪", false}, 'v': {"ʋ", false}, 'w': {"ʋ", false},
	'x': {"ks", false}, 'y': {"j", false}, 'z': {"z", false},
}

// hinglishLexicon holds frequent words whose spelling is too irregular for
// the letter tables.
var hinglishLexicon = map[string]string{
	"namaste": "nəmˈəsteː", "namaskar": "nəməskˈaːr", "dhanyavaad": "d̪ʱənjəʋˈaːd̪",
	"dhanyavad": "d̪ʱənjəʋˈaːd̪", "shukriya": "ʃʊkrˈɪjaː", "alvida": "əlʋˈɪd̪aː",
	"salaam": "səlˈaːm", "kya": "kjaː", "hai": "ɦɛː", "hain": "ɦɛ̃ː",
	"main": "mɛ̃ː", "mai": "mɛ̃ː", "aap": "aːp", "tum": "t̪ʊm", "hum": "ɦəm",
	"kaise": "kˈɛːseː", "kaisa": "kˈɛːsaː", "ho": "ɦoː", "kaun": "kɔːn",
	"nahi": "nəɦˈiː", "nahin": "nəɦˈĩː", "haan": "ɦãː", "accha": "ˈətʃʰaː",
	"achha": "ˈətʃʰaː", "acha": "ˈətʃʰaː", "theek": "ʈʰiːk", "thik": "ʈʰiːk",
	"mera": "mˈeːraː", "meri": "mˈeːriː", "mere": "mˈeːreː", "tera": "t̪ˈeːraː",
	"teri": "t̪ˈeːriː", "naam": "naːm", "kaam": "kaːm", "bahut": "bəɦˈʊt̪",
	"pyaar": "pjaːr", "pyar": "pjaːr", "ghar": "ɡʱər", "paani": "pˈaːniː",
	"khana": "kʰˈaːnaː", "dost": "d̪oːst̪", "ji": "dʒiː", "yaar": "jaːr",
	"bhai": "bʱaːiː", "kahan": "kəɦˈãː", "kyun": "kjũː", "kab": "kəb",
	"kitna": "kˈɪt̪naː", "kuch": "kʊtʃʰ", "sab": "səb", "aur": "ɔːr",
	"ya": "jaː", "par": "pər", "mein": "mẽː", "se": "seː", "ka": "kaː",
	"ki": "kiː", "ke": "keː", "ko": "koː", "woh": "ʋoː", "wo": "ʋoː",
	"yeh": "jeː", "ye": "jeː", "tha": "t̪ʰaː", "thi": "t̪ʰiː", "the": "t̪ʰeː",
	"hoon": "ɦũː", "hun": "ɦũː", "raha": "rəɦˈaː", "rahi": "rəɦˈiː",
	"rahe": "rəɦˈeː", "chalo": "tʃəlˈoː", "aaj": "aːdʒ", "kal": "kəl",
	"abhi": "əbʱˈiː", "phir": "pʰɪr", "bhi": "bʱiː", "sirf": "sɪrf",
	"log": "loːɡ", "zindagi": "zˈɪnd̪əɡiː", "duniya": "d̪ˈʊnɪjaː",
	"khush": "kʰʊʃ", "shaam": "ʃaːm", "subah": "sˈʊbəɦ", "raat": "raːt̪",
	"din": "d̪ɪn", "matlab": "mˈət̪ləb", "samajh": "sˈəmədʒʱ",
	"bolo": "bˈoːloː", "dekho": "d̪ˈeːkʰoː", "suno": "sʊnˈoː", "karo": "kərˈoː",
	"jao": "dʒaːoː", "aao": "aːoː", "beta": "bˈeːʈaː", "maa": "mãː",
	"papa": "pˈaːpaː", "didi": "d̪ˈiːd̪iː", "bhaiya": "bʱˈəɪjaː",
}

// Words whose final nasal is pronounced as a consonant.
var hinglishKeepNasal = map[string]bool{
	"aam": true, "jaan": true, "shaan": true, "paan": true, "insaan": true,
	"imaan": true, "dhyaan": true, "maan": true, "naam": true, "kaam": true,
	"shaam": true, "salaam": true, "inaam": true, "gulaam": true,
}

var lengthenFinal = map[string]string{"ə": "aː", "ɪ": "iː", "ʊ": "uː"}

// Hinglish phonemizes Hindi written in Latin script.
type Hinglish struct{}

// NewHinglish returns the Hinglish engine.
func NewHinglish() *Hinglish {
	return &Hinglish{}
}

// PhonemizeSegment converts every Latin word of text and leaves all other
// characters in place.
func (h *Hinglish) PhonemizeSegment(text string) string {
	return hinglishWord.ReplaceAllStringFunc(text, phonemizeHinglishWord)
}

func phonemizeHinglishWord(word string) string {
	lower := strings.ToLower(word)
	if ipa, ok := hinglishLexicon[lower]; ok {
		return ipa
	}

	tokens := hinglishTokens(lower)
	tokens = applyHinglishFinals(lower, tokens)

	return joinTokens(tokens)
}

// hinglishTokens decomposes a lowercase ASCII word, two-letter keys first.
func hinglishTokens(word string) []token {
	tokens := make([]token, 0, len(word))

	for i := 0; i < len(word); {
		if i+1 < len(word) {
			if tok, ok := hinglishDigraphs[word[i:i+2]]; ok {
				tokens = append(tokens, tok)
				i += 2

				continue
			}
		}

		if tok, ok := hinglishLetters[word[i]]; ok {
			tokens = append(tokens, tok)
		} else {
			tokens = append(tokens, token{ipa: word[i : i+1]})
		}
		i++
	}

	return tokens
}

func applyHinglishFinals(word string, tokens []token) []token {
	n := len(tokens)
	if n == 0 {
		return tokens
	}

	last := tokens[n-1]

	if long, ok := lengthenFinal[last.ipa]; ok {
		tokens[n-1] = token{ipa: long, vowel: true}

		return tokens
	}

	if last.vowel {
		return tokens
	}

	if n >= 4 && tokens[n-2].ipa == "ə" && !tokens[n-3].vowel && tokens[n-4].vowel &&
		countVowels(tokens[:n-2]) >= 2 {
		return append(tokens[:n-2], last)
	}

	if n >= 2 && (last.ipa == "n" || last.ipa == "m") && !hinglishKeepNasal[word] {
		prev := tokens[n-2]
		if prev.vowel && strings.HasSuffix(prev.ipa, "ː") {
			tokens[n-2] = token{ipa: strings.TrimSuffix(prev.ipa, "ː") + nasalTilde + "ː", vowel: true}

			return tokens[:n-1]
		}
	}

	return tokens
}

func countVowels(tokens []token) int {
	count := 0

	for _, tok := range tokens {
		if tok.vowel {
			count++
		}
	}

	return count
}
