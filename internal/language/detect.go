package language

import "regexp"

const (
	devanagariBlockFirst = 0x0900
	devanagariBlockLast  = 0x097F
)

// Patterns that on their own identify Latin-script Hindi.
var strongHinglishPatterns = compileAll(
	`\b(namaste|namaskar|dhanyavaad|dhanyavad|shukriya|alvida)\b`,
	`\b(kya|kaise|kaisa|kaisi|kahan|kyun|kyon|kab|kaun)\s+(hai|hain|ho|hoon|tha|thi|the)\b`,
	`\b(mera|meri|mere|tera|teri|tumhara|aapka|aapki)\s+naam\b`,
	`\b(main|mai|hum)\s+\w+\s+(hoon|hun|hain)\b`,
	`\b(theek|thik)\s+(hai|hoon|ho)\b`,
	`\b(bahut|bohot)\s+(accha|achha|acha|badiya|pyaar|zyada)\b`,
	`\b(nahi|nahin)\s+(hai|hoon|tha|thi|pata)\b`,
	`\b(accha|achha|haan|ji)\s+(ji|bhai|yaar)\b`,
)

// Patterns that need a second, distinct witness. Words shared with everyday
// English ("main", "the", "do") are left out.
var weakHinglishPatterns = compileAll(
	`\b(mujhe|mujhko|humko|tum|tumko|aap|aapko|woh|yeh|unko|usko|mera|meri|tera|teri|hamara|humara)\b`,
	`\b(hai|hain|hoon|hun|tha|thi)\b`,
	`\b(ka|ki|ke|ko|se|mein|tak|wala|wali|wale)\b`,
	`\b(karo|karna|karta|karti|jao|jaana|jaata|aao|aana|dena|lena|bolo|bolna|dekho|dekhna|suno|sunna|chalo|khao|khana|piyo|peena)\b`,
	`\b\w+(raha|rahi|rahe|unga|ungi|oge)\b`,
	`\b(nahi|nahin|kya|kyun|kaise|kahan|kab|kitna|kitni|bahut|bohot|accha|achha|yaar|bhai|haan)\b`,
)

func compileAll(expressions ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(expressions))
	for _, expr := range expressions {
		patterns = append(patterns, regexp.MustCompile(`(?i)`+expr))
	}

	return patterns
}

// InDevanagariBlock reports whether r lies in U+0900..U+097F.
func InDevanagariBlock(r rune) bool {
	return r >= devanagariBlockFirst && r <= devanagariBlockLast
}

// HasDevanagari reports whether any rune of text falls in the Devanagari block.
func HasDevanagari(text string) bool {
	for _, r := range text {
		if InDevanagariBlock(r) {
			return true
		}
	}

	return false
}

// LooksHinglish is a best-effort lexical check for Hindi written in Latin
// script. Short or ambiguous text can be misclassified in either direction.
func LooksHinglish(text string) bool {
	for _, pattern := range strongHinglishPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}

	hits := 0

	for _, pattern := range weakHinglishPatterns {
		if pattern.MatchString(text) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}

	return false
}

// SelectScheme picks the phonemization scheme for one call. Script detection
// wins over the hint, an explicit Hindi hint wins over lexical detection, and
// lexical detection only overrides English hints.
func SelectScheme(text string, hint Code) Scheme {
	switch {
	case HasDevanagari(text):
		return Devanagari
	case hint == CodeHindi:
		return Hinglish
	case hint.IsEnglish() && LooksHinglish(text):
		return Hinglish
	default:
		return SchemeFor(hint)
	}
}
