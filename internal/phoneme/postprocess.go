package phoneme

import (
	"regexp"
	"strings"

	"github.com/book-expert/phonemizer/internal/language"
)

// fix is one narrow rewrite. Fixes whose matches can overlap are repeated
// until the string stops changing.
type fix struct {
	pattern     *regexp.Regexp
	replacement string
	repeat      bool
}

func literal(from, to string) fix {
	return fix{pattern: regexp.MustCompile(regexp.QuoteMeta(from)), replacement: to}
}

func rewrite(expr, replacement string) fix {
	return fix{pattern: regexp.MustCompile(expr), replacement: replacement}
}

func repeated(expr, replacement string) fix {
	return fix{pattern: regexp.MustCompile(expr), replacement: replacement, repeat: true}
}

const (
	vowelClass     = `aeiouəɛɔɪʊæɑʌ`
	notWordSymbols = `[^\p{L}\p{M}ˈˌːʰʱ]`
)

var globalFixes = []fix{
	literal("kəkˈoːɹoʊ", "kˈoʊkəɹoʊ"),
	literal("kəkˈɔːɹəʊ", "kˈəʊkəɹəʊ"),
	literal("ʲ", "j"),
	literal("r", "ɹ"),
	literal("x", "k"),
	literal("ɬ", "l"),
	rewrite(`([a-zɹː])(hˈʌndɹɪd)`, "$1 $2"),
	repeated(` z([;:,.!?¡¿—…"«»“” ]|$)`, "z$1"),
}

// Applied whenever the phonemes came from Hindi text or a Hindi voice.
var hindiFamilyFixes = []fix{
	literal("ʰʰ", "ʰ"),
	rewrite(`([ptkʈ]\x{032A}?)ɦ`, "${1}ʰ"),
	rewrite(`([bdɡɖ]\x{032A}?)ɦ`, "${1}ʱ"),
	rewrite(`([`+vowelClass+`]) ː`, "${1}ː"),
	rewrite(`ːː+`, "ː"),
}

// Applied only when the Hindi or Hinglish scheme produced the phonemes.
var hindiSchemeFixes = []fix{
	rewrite(`k(?:aʊ|əʊ)n`, "kɔːn"),
	repeated(`(^|`+notWordSymbols+`)hoʊ(`+notWordSymbols+`|$)`, "${1}hoː${2}"),
	rewrite(`(^|\s)([^\s`+vowelClass+`ˈˌ]\p{M}?)əɹ(eː|iː)`, "${1}${2}ɹ${3}"),
	repeated(`([`+vowelClass+`]\p{M}?ː?)ɹ([`+vowelClass+`])`, "${1}ɾ${2}"),
	rewrite(`([ʰʱ])([hɦ])`, "$1 $2"),
	repeated(`([eo])([^\s`+vowelClass+`ːˈˌ\p{M}]\p{M}?[^\s`+vowelClass+`ːˈˌ\p{M}]\p{M}?)(\s|$)`, "${1}ː${2}${3}"),
}

var americanFixes = []fix{
	repeated(`nˈaɪnti([^ː]|$)`, "nˈaɪndi$1"),
}

// PostProcess applies the ordered correction list to a joined phoneme
// string. scheme is the scheme that produced ps and hint the language code
// requested by the caller.
func PostProcess(ps string, scheme language.Scheme, hint language.Code) string {
	ps = applyFixes(ps, globalFixes)

	if scheme.IsHindi() || hint == language.CodeHindi {
		ps = applyFixes(ps, hindiFamilyFixes)
	}

	if scheme.IsHindi() {
		ps = applyFixes(ps, hindiSchemeFixes)
	}

	if hint == language.CodeAmericanEnglish {
		ps = applyFixes(ps, americanFixes)
	}

	return strings.TrimSpace(ps)
}

func applyFixes(ps string, fixes []fix) string {
	for _, f := range fixes {
		next := f.pattern.ReplaceAllString(ps, f.replacement)

		for f.repeat && next != ps {
			ps = next
			next = f.pattern.ReplaceAllString(ps, f.replacement)
		}

		ps = next
	}

	return ps
}
