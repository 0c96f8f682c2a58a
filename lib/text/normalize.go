package text

import (
	"strings"
	"unicode"
)

var TokenDelimiters = map[byte]struct{}{
	'(':  {},
	')':  {},
	'{':  {},
	'}':  {},
	'[':  {},
	']':  {},
	'"':  {},
	'\'': {},
	':':  {},
	';':  {},
	',':  {},
	'.':  {},
	'?':  {},
	'!':  {},
	'/':  {},
	'-':  {},
}

var sentenceEnd = map[byte]struct{}{
	'.': {},
	'?': {},
	'!': {},
}

func IsTokenDelimiter(b byte) bool {
	_, ok := TokenDelimiters[b]
	return ok
}

// IsDelimiter reports whether s is a single delimiter character.
func IsDelimiter(s string) bool {
	return len(s) == 1 && IsTokenDelimiter(s[0])
}

// IsNumber reports whether s only holds digits and number punctuation.
func IsNumber(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == '-' || r == '+' || unicode.IsSpace(r):
		default:
			return false
		}
	}
	return digits > 0
}

// CollapseSpaces replaces newlines and tabs by spaces, squeezes runs of
// spaces and trims the result.
func CollapseSpaces(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == ' ' }), " ")
}

// TrimSpace returns s without surrounding whitespace along with the number of
// bytes removed on the left.
func TrimSpace(s string) (trimmed string, left int) {
	trimmed = strings.TrimLeftFunc(s, unicode.IsSpace)
	left = len(s) - len(trimmed)
	return strings.TrimRightFunc(trimmed, unicode.IsSpace), left
}

// FirstCapital reports whether s starts with an upper case letter and is not all capitals.
func FirstCapital(s string) bool {
	first := true
	allCaps := true
	for _, r := range s {
		if first {
			if !unicode.IsUpper(r) {
				return false
			}
			first = false
			continue
		}
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			allCaps = false
		}
	}
	return !first && !allCaps
}

// Sentences splits s into half-open byte spans. A sentence ends after '.', '?'
// or '!' followed by whitespace or the end of s, and at every newline.
// Surrounding whitespace is not part of a sentence.
func Sentences(s string) []OffsetPosition {
	var spans []OffsetPosition
	start := 0
	emit := func(end int) {
		sentence, left := TrimSpace(s[start:end])
		if sentence != "" {
			spans = append(spans, OffsetPosition{Start: start + left, End: start + left + len(sentence)})
		}
		start = end
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			emit(i + 1)
			continue
		}
		if _, ok := sentenceEnd[s[i]]; ok {
			if i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\t' || s[i+1] == '\n' || s[i+1] == '\r' {
				emit(i + 1)
			}
		}
	}
	emit(len(s))
	return spans
}
