package text

import "strings"

// Token is one segment of a document. Offset is the byte offset of Text in the
// document the token was cut from.
type Token struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// IsBlank reports whether the token carries no matchable text.
func (t Token) IsBlank() bool {
	return strings.TrimSpace(t.Text) == ""
}

// LabeledToken is a token paired with the label an external tagger assigned to it.
type LabeledToken struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// OffsetPosition is a span over either token indices (inclusive) or
// characters (half-open), depending on where it is used.
type OffsetPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two half-open character spans share at least one character.
func (p OffsetPosition) Overlaps(o OffsetPosition) bool {
	return p.Start < o.End && o.Start < p.End
}

// Contains reports whether o lies inside p (half-open spans).
func (p OffsetPosition) Contains(o OffsetPosition) bool {
	return p.Start <= o.Start && o.End <= p.End
}

// Join concatenates the text of tokens, which reproduces the original text
// when the tokens came from Tokenize.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// FromLabeled turns tagger pairs back into a token stream, computing offsets
// from the concatenated pair texts.
func FromLabeled(pairs []LabeledToken) []Token {
	tokens := make([]Token, len(pairs))
	offset := 0
	for i, p := range pairs {
		tokens[i] = Token{Text: p.Text, Offset: offset}
		offset += len(p.Text)
	}
	return tokens
}
