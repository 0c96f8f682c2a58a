package features_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/features"
	snippet_reader "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader"
	plain "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader/text"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/testhelpers"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

func TestTokens(t *testing.T) {
	lex := testhelpers.Lexicon(t)
	s := "Drawn in LibreOffice Draw, see https://www.libreoffice.org"

	tokens := features.Tokens(lex, text.Tokenize(s, 100))
	byText := map[string]features.Token{}
	for _, tok := range tokens {
		assert.False(t, tok.IsBlank())
		byText[tok.Text] = tok
	}

	assert.Equal(t, 100+strings.Index(s, "LibreOffice"), byText["LibreOffice"].Offset)
	assert.True(t, byText["LibreOffice"].Software)
	assert.True(t, byText["Draw"].Software)
	assert.True(t, byText["Draw"].SoftwareToken)
	assert.False(t, byText["Drawn"].Software)
	assert.False(t, byText["Drawn"].SoftwareToken)
	assert.True(t, byText["www.libreoffice.org"].URL)
	assert.False(t, byText["see"].URL)
}

func TestLabeled(t *testing.T) {
	lex := testhelpers.Lexicon(t)
	snippet := features.Labeled(lex, []text.LabeledToken{
		{Text: "ImageJ", Label: "<software>"},
		{Text: " "},
		{Text: "1.52"},
	})
	assert.Equal(t, "ImageJ 1.52", snippet.Text)
	require.Len(t, snippet.Tokens, 2)
	assert.True(t, snippet.Tokens[0].Software)
	assert.Equal(t, 7, snippet.Tokens[1].Offset)
	assert.False(t, snippet.Tokens[1].Software)
}

func TestRead(t *testing.T) {
	lex := testhelpers.Lexicon(t)
	var snippets []features.Snippet
	err := features.Read(lex, plain.SnippetReader{}, strings.NewReader("We used R.\nAnd SPSS.\n"), func(s features.Snippet) error {
		snippets = append(snippets, s)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, snippets, 2)

	assert.Equal(t, snippet_reader.Snippet{Text: "And SPSS.", Offset: 11}, snippets[1].Snippet)
	assert.Equal(t, "SPSS", snippets[1].Tokens[1].Text)
	assert.Equal(t, 15, snippets[1].Tokens[1].Offset)
	assert.True(t, snippets[1].Tokens[1].Software)
}
