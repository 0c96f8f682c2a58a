// Package lexicon holds the lexical resources used to annotate and filter
// software mentions. A Lexicon is loaded once and never modified, so any
// number of goroutines may read from it.
package lexicon

import (
	"strings"
	"unicode/utf8"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/blocklist"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/matcher"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

// LanguageInfo describes a programming language in the knowledge base.
type LanguageInfo struct {
	WikiURL     string
	KnowledgeID string
}

type Lexicon struct {
	software       *matcher.Matcher
	idf            map[string]float64
	categories     map[string]struct{}
	propertyValues map[string]struct{}
	stopwords      map[string]struct{}
	languages      map[string]LanguageInfo
	blacklist      *blocklist.Blocklist
	addresses      []string
}

// ContainsSoftwareToken reports whether token appears in a software name of the vocabulary.
func (l *Lexicon) ContainsSoftwareToken(token string) bool {
	return l.software.Contains(token)
}

// SoftwareNamePositions returns the token spans of vocabulary software names.
func (l *Lexicon) SoftwareNamePositions(tokens []text.Token) []text.OffsetPosition {
	return l.software.Match(tokens)
}

// SoftwareNamePositionsLabeled is SoftwareNamePositions over tagger pairs.
func (l *Lexicon) SoftwareNamePositionsLabeled(pairs []text.LabeledToken) []text.OffsetPosition {
	return l.software.MatchLabeled(pairs)
}

// TermIDF returns the inverse document frequency of term, 0 when unknown.
func (l *Lexicon) TermIDF(term string) float64 {
	return l.idf[term]
}

// IsKnownCategory reports whether value is a Wikipedia category of interest, ignoring case.
func (l *Lexicon) IsKnownCategory(value string) bool {
	_, ok := l.categories[strings.ToLower(value)]
	return ok
}

// IsKnownPropertyValue reports whether value is an accepted P31/P279 value.
func (l *Lexicon) IsKnownPropertyValue(value string) bool {
	_, ok := l.propertyValues[value]
	return ok
}

// IsStopword reports whether value is an English stopword. Single characters
// are lower cased before lookup; longer values are matched as given.
func (l *Lexicon) IsStopword(value string) bool {
	if utf8.RuneCountInString(value) == 1 {
		value = strings.ToLower(value)
	}
	_, ok := l.stopwords[value]
	return ok
}

// ProgrammingLanguage looks up a language by name or by its all-uppercase form.
func (l *Lexicon) ProgrammingLanguage(name string) (LanguageInfo, bool) {
	info, ok := l.languages[name]
	return info, ok
}

// IsBlacklistedName reports whether name must not be reported as software.
func (l *Lexicon) IsBlacklistedName(name string) bool {
	return !l.blacklist.Allowed(name)
}

// Addresses returns the address gazetteer used to clean creator names.
func (l *Lexicon) Addresses() []string {
	return l.addresses
}

// Stats returns the size of each table, keyed by resource name.
func (l *Lexicon) Stats() map[string]interface{} {
	return map[string]interface{}{
		"vocabulary":      l.software.Size(),
		"idf":             len(l.idf),
		"categories":      len(l.categories),
		"property_values": len(l.propertyValues),
		"stopwords":       len(l.stopwords),
		"languages":       len(l.languages),
		"blacklist":       l.blacklist.Len(),
		"addresses":       len(l.addresses),
	}
}
