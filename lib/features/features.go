// Package features computes the lexical features a sequence labeller reads
// alongside each token: membership in a vocabulary software name and in a URL.
package features

import (
	"io"

	snippet_reader "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

type Lexicon interface {
	SoftwareNamePositions(tokens []text.Token) []text.OffsetPosition
	SoftwareNamePositionsLabeled(pairs []text.LabeledToken) []text.OffsetPosition
	ContainsSoftwareToken(token string) bool
}

type Token struct {
	text.Token
	// part of a vocabulary software name
	Software bool `json:"software"`
	// found in some vocabulary software name
	SoftwareToken bool `json:"softwareToken"`
	URL           bool `json:"url"`
}

type Snippet struct {
	snippet_reader.Snippet
	Tokens []Token `json:"tokens"`
}

// inSpans flags the tokens covered by inclusive token-index spans.
func inSpans(n int, spans []text.OffsetPosition) []bool {
	flags := make([]bool, n)
	for _, s := range spans {
		for i := s.Start; i <= s.End && i < n; i++ {
			flags[i] = true
		}
	}
	return flags
}

func annotate(lex Lexicon, tokens []text.Token, software, urls []text.OffsetPosition) []Token {
	inSoftware := inSpans(len(tokens), software)
	inURL := inSpans(len(tokens), urls)

	annotated := make([]Token, 0, len(tokens))
	for i, t := range tokens {
		if t.IsBlank() {
			continue
		}
		annotated = append(annotated, Token{
			Token:         t,
			Software:      inSoftware[i],
			SoftwareToken: lex.ContainsSoftwareToken(t.Text),
			URL:           inURL[i],
		})
	}
	return annotated
}

// Tokens annotates a token stream. Blank tokens are left out.
func Tokens(lex Lexicon, tokens []text.Token) []Token {
	return annotate(lex, tokens, lex.SoftwareNamePositions(tokens), text.URLPositions(tokens))
}

// Labeled annotates tokens already cut by the tagger. They are read as one
// snippet whose text is their concatenation.
func Labeled(lex Lexicon, pairs []text.LabeledToken) Snippet {
	tokens := text.FromLabeled(pairs)
	return Snippet{
		Snippet: snippet_reader.Snippet{Text: text.Join(tokens)},
		Tokens:  annotate(lex, tokens, lex.SoftwareNamePositionsLabeled(pairs), text.URLPositionsLabeled(pairs)),
	}
}

// Read annotates every paragraph reader finds in r. Token offsets are
// positions in r.
func Read(lex Lexicon, reader snippet_reader.Client, r io.Reader, onSnippet func(Snippet) error) error {
	return reader.ReadSnippetsWithCallback(r, func(snippet *snippet_reader.Snippet) error {
		return onSnippet(Snippet{
			Snippet: *snippet,
			Tokens:  Tokens(lex, text.Tokenize(snippet.Text, snippet.Offset)),
		})
	})
}
