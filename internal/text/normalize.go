// Package text provides the text rewriting utilities that run before
// phonemization: normalization, punctuation-preserving segmentation and
// sentence chunking.
//
// Every function in this package is pure. Malformed matches are left in place
// instead of being reported, so normalization never fails on user text.
package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Regex patterns for the normalization stages.
const (
	extraSpaceRegexPattern    = `[\t\f\r\v\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`
	spaceRunRegexPattern      = ` {2,}`
	blankLineRegexPattern     = `(?m)^ +$`
	honorificRegexPattern     = `\b(Dr|DR|Mr|MR|Mrs|MRS|Ms|MS)\.( [A-Z])`
	etceteraRegexPattern      = `\b[Ee][Tt][Cc]\.( [A-Z])?`
	casualRegexPattern        = `(?i)\b(y)eah?\b`
	numberTokenRegexPattern   = `\d*\.\d+|\b\d{4}s?\b|\b(?:1[0-2]|[1-9]):[0-5]\d\b`
	moneyRegexPattern         = `(?i)[$£]\d+(?:\.\d+)?(?: hundred| thousand| (?:[bm]|tr)illion)*\b|[$£]\d+\.\d\d?\b`
	decimalRegexPattern       = `\d*\.\d+`
	digitCapitalSRegexPattern = `(\d)S`
	possessiveRegexPattern    = `([BCDFGHJ-NP-TV-Z])'?s\b`
	xPossessiveRegexPattern   = `X'S\b`
	dottedLettersRegexPattern = `(?:[A-Za-z]\.){2,} [a-z]`
)

// Spoken forms used by the numeric stages.
const (
	minYearToSpeak   = 1100
	yearCentury      = 1000
	yearHundredFloor = 100
	yearDecadeFloor  = 10
	centsWidth       = 2
	fmtClock         = "%d o'clock"
	fmtClockOh       = "%d oh %d"
	fmtClockMinutes  = "%d %d"
	fmtMoneyAndCoins = "%s %s and %d %s"
)

// stage is one named rewrite of the normalization pipeline.
type stage struct {
	name  string
	apply func(string) string
}

// Normalizer rewrites raw text into the canonical form expected by the
// phonemizer. Stages run in a fixed order; later stages rely on earlier
// rewrites (digit commas are gone before decimals are spoken, for example).
type Normalizer struct {
	extraSpacePattern    *regexp.Regexp
	spaceRunPattern      *regexp.Regexp
	blankLinePattern     *regexp.Regexp
	honorificPattern     *regexp.Regexp
	etceteraPattern      *regexp.Regexp
	casualPattern        *regexp.Regexp
	numberTokenPattern   *regexp.Regexp
	moneyPattern         *regexp.Regexp
	decimalPattern       *regexp.Regexp
	digitCapitalSPattern *regexp.Regexp
	possessivePattern    *regexp.Regexp
	xPossessivePattern   *regexp.Regexp
	dottedLettersPattern *regexp.Regexp

	quoteReplacer *strings.Replacer
	cjkReplacer   *strings.Replacer

	stages []stage
}

var honorifics = map[string]string{
	"Dr": "Doctor", "DR": "Doctor",
	"Mr": "Mister", "MR": "Mister",
	"Mrs": "Missus", "MRS": "Missus",
	"Ms": "Miss", "MS": "Miss",
}

// NewNormalizer creates a Normalizer with all patterns compiled up front.
func NewNormalizer() *Normalizer {
	n := &Normalizer{
		extraSpacePattern:    regexp.MustCompile(extraSpaceRegexPattern),
		spaceRunPattern:      regexp.MustCompile(spaceRunRegexPattern),
		blankLinePattern:     regexp.MustCompile(blankLineRegexPattern),
		honorificPattern:     regexp.MustCompile(honorificRegexPattern),
		etceteraPattern:      regexp.MustCompile(etceteraRegexPattern),
		casualPattern:        regexp.MustCompile(casualRegexPattern),
		numberTokenPattern:   regexp.MustCompile(numberTokenRegexPattern),
		moneyPattern:         regexp.MustCompile(moneyRegexPattern),
		decimalPattern:       regexp.MustCompile(decimalRegexPattern),
		digitCapitalSPattern: regexp.MustCompile(digitCapitalSRegexPattern),
		possessivePattern:    regexp.MustCompile(possessiveRegexPattern),
		xPossessivePattern:   regexp.MustCompile(xPossessiveRegexPattern),
		dottedLettersPattern: regexp.MustCompile(dottedLettersRegexPattern),
		quoteReplacer: strings.NewReplacer(
			"‘", "'", "’", "'", "‹", "'", "›", "'",
			"“", `"`, "”", `"`, "„", `"`,
			"(", "«", ")", "»",
		),
		cjkReplacer: strings.NewReplacer(
			"、", ", ", "。", ". ", "！", "! ", "，", ", ",
			"：", ": ", "；", "; ", "？", "? ",
		),
	}

	n.stages = []stage{
		{name: "quotes", apply: n.quoteReplacer.Replace},
		{name: "cjk-punctuation", apply: n.cjkReplacer.Replace},
		{name: "whitespace", apply: n.collapseWhitespace},
		{name: "honorifics", apply: n.expandHonorifics},
		{name: "casual", apply: n.normalizeCasual},
		{name: "numbers", apply: n.expandNumbers},
		{name: "possessives", apply: n.markPossessives},
		{name: "abbreviations", apply: n.hyphenateAbbreviations},
		{name: "trim", apply: strings.TrimSpace},
	}

	return n
}

// Normalize applies every stage in order and returns the canonical text.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return text
	}

	for _, s := range n.stages {
		text = s.apply(text)
	}

	return text
}

func (n *Normalizer) collapseWhitespace(text string) string {
	text = n.extraSpacePattern.ReplaceAllString(text, " ")
	text = n.spaceRunPattern.ReplaceAllString(text, " ")

	return n.blankLinePattern.ReplaceAllString(text, "")
}

// expandHonorifics only fires when a capitalized word follows, so that a
// sentence-final "Dr." is left alone.
func (n *Normalizer) expandHonorifics(text string) string {
	text = replaceIndexed(n.honorificPattern, text, func(loc []int) string {
		return honorifics[group(text, loc, 1)] + group(text, loc, 2)
	})

	return replaceIndexed(n.etceteraPattern, text, func(loc []int) string {
		next := group(text, loc, 1)
		if next == "" {
			return "etcetera"
		}

		return "etcetera." + next
	})
}

func (n *Normalizer) normalizeCasual(text string) string {
	return n.casualPattern.ReplaceAllString(text, "${1}e'a")
}

func (n *Normalizer) expandNumbers(text string) string {
	text = replaceIndexed(n.numberTokenPattern, text, func(loc []int) string {
		return speakNumberToken(text, loc)
	})
	text = rewriteBetween(text, ',', "", isDigit, isDigit)
	text = n.moneyPattern.ReplaceAllStringFunc(text, speakMoney)
	text = replaceIndexed(n.decimalPattern, text, func(loc []int) string {
		return speakDecimal(text[loc[0]:loc[1]], loc[0] > 0 && text[loc[0]-1] != ' ')
	})
	text = rewriteBetween(text, '-', " to ", isDigit, isDigit)

	return n.digitCapitalSPattern.ReplaceAllString(text, "$1 S")
}

func (n *Normalizer) markPossessives(text string) string {
	text = n.possessivePattern.ReplaceAllString(text, "$1'S")

	return n.xPossessivePattern.ReplaceAllString(text, "X's")
}

func (n *Normalizer) hyphenateAbbreviations(text string) string {
	text = n.dottedLettersPattern.ReplaceAllStringFunc(text, func(match string) string {
		return strings.ReplaceAll(match, ".", "-")
	})

	return rewriteBetween(text, '.', "-", isUpper, isUpper)
}

// speakNumberToken handles the first numeric pass: decimals are protected,
// clock times and years become their spoken split forms.
func speakNumberToken(text string, loc []int) string {
	match := text[loc[0]:loc[1]]

	switch {
	case strings.Contains(match, "."):
		return match
	case strings.Contains(match, ":"):
		// "12:30:45" style timestamps are not clock times.
		if loc[0] > 0 && text[loc[0]-1] == ':' || loc[1] < len(text) && text[loc[1]] == ':' {
			return match
		}

		return speakClock(match)
	default:
		return speakYear(match)
	}
}

func speakClock(match string) string {
	hourText, minuteText, found := strings.Cut(match, ":")
	if !found {
		return match
	}

	hour, hourErr := strconv.Atoi(hourText)
	minute, minuteErr := strconv.Atoi(minuteText)

	if hourErr != nil || minuteErr != nil {
		return match
	}

	switch {
	case minute == 0:
		return fmt.Sprintf(fmtClock, hour)
	case minute < yearDecadeFloor:
		return fmt.Sprintf(fmtClockOh, hour, minute)
	default:
		return fmt.Sprintf(fmtClockMinutes, hour, minute)
	}
}

func speakYear(match string) string {
	digits, suffix := match, ""
	if strings.HasSuffix(match, "s") {
		digits, suffix = strings.TrimSuffix(match, "s"), "s"
	}

	year, err := strconv.Atoi(digits)
	if err != nil || len(digits) != 4 {
		return match
	}

	if year < minYearToSpeak || year%yearCentury < yearDecadeFloor {
		return match
	}

	left := digits[:2]
	right, _ := strconv.Atoi(digits[2:])

	if year%yearCentury >= yearHundredFloor {
		if right == 0 {
			return left + " hundred" + suffix
		}

		if right < yearDecadeFloor {
			return left + " oh " + strconv.Itoa(right) + suffix
		}
	}

	return left + " " + strconv.Itoa(right) + suffix
}

func speakMoney(match string) string {
	symbol, size := utf8.DecodeRuneInString(match)
	amount := match[size:]

	bill, coin, coins := "pound", "penny", "pence"
	if symbol == '$' {
		bill, coin, coins = "dollar", "cent", "cents"
	}

	_, parseErr := strconv.ParseFloat(amount, 64)
	if parseErr != nil {
		// "$5 million" and friends.
		return amount + " " + bill + "s"
	}

	if !strings.Contains(amount, ".") {
		if amount == "1" {
			return amount + " " + bill
		}

		return amount + " " + bill + "s"
	}

	parts := strings.Split(amount, ".")
	if len(parts) != 2 {
		return match
	}

	whole, fraction := parts[0], parts[1]
	if len(fraction) < centsWidth {
		fraction += strings.Repeat("0", centsWidth-len(fraction))
	}

	cents, err := strconv.Atoi(fraction)
	if err != nil {
		return match
	}

	unit := bill
	if whole != "1" {
		unit += "s"
	}

	coinUnit := coins
	if cents == 1 {
		coinUnit = coin
	}

	return fmt.Sprintf(fmtMoneyAndCoins, whole, unit, cents, coinUnit)
}

// speakDecimal spells the fraction digit by digit. A bare fraction glued to
// the preceding text ("1.2.3", "$.50") gets a separating space.
func speakDecimal(match string, glued bool) string {
	parts := strings.Split(match, ".")
	if len(parts) != 2 || parts[1] == "" {
		return match
	}

	digits := strings.Join(strings.Split(parts[1], ""), " ")
	if parts[0] == "" {
		if glued {
			return " point " + digits
		}

		return "point " + digits
	}

	return parts[0] + " point " + digits
}

// replaceIndexed is ReplaceAllStringFunc with access to submatch offsets.
func replaceIndexed(pattern *regexp.Regexp, text string, replace func(loc []int) string) string {
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var builder strings.Builder

	last := 0

	for _, loc := range matches {
		builder.WriteString(text[last:loc[0]])
		builder.WriteString(replace(loc))
		last = loc[1]
	}

	builder.WriteString(text[last:])

	return builder.String()
}

// group returns submatch n of loc, or "" when it did not participate.
func group(text string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}

	return text[loc[2*n]:loc[2*n+1]]
}

// rewriteBetween replaces every sep byte whose neighbours satisfy left and
// right. The neighbours are read from the original text, so adjacent
// separators ("1,2,3") are all rewritten.
func rewriteBetween(text string, sep byte, replacement string, left, right func(byte) bool) string {
	if strings.IndexByte(text, sep) < 0 {
		return text
	}

	var builder strings.Builder

	builder.Grow(len(text))

	for i := range len(text) {
		c := text[i]
		if c == sep && i > 0 && i+1 < len(text) && left(text[i-1]) && right(text[i+1]) {
			builder.WriteString(replacement)

			continue
		}

		builder.WriteByte(c)
	}

	return builder.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
