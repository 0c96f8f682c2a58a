// Package testhelpers builds in-memory fixtures shared by the package tests.
package testhelpers

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/lexicon"
)

const (
	Vocabulary = "GROBID\nSPSS\nLibreOffice\nLibreOffice Draw\nImageJ\nR\n"
	IDF        = "GROBID\t4.2\nSPSS\t0.0001\nthe\t0.01\nbroken line\nImageJ\tnotanumber\nR\t2.5\n"
	Categories = "Statistical software\nFree software\n"
	Stopwords  = "the\na\nof\nand\nin\nis\nwith\nfor\nto\nwe\n"
	Languages  = "name,wiki_url,knowledge_id\n" +
		"Python,https://en.wikipedia.org/wiki/Python_(programming_language),Q28865\n" +
		"Visual Basic,https://en.wikipedia.org/wiki/Visual_Basic,Q2378\n" +
		"R,https://en.wikipedia.org/wiki/R_(programming_language),Q206904\n"
	Blacklist = "# generic words\nsoftware\nData\n"
	Addresses = "Chicago IL, USA\nSanta Barbara, CA, USA\n"
)

// LexiconFs writes the fixture resources to an in-memory filesystem and
// returns the matching config.
func LexiconFs(t testing.TB) (afero.Fs, lexicon.Config) {
	fs := afero.NewMemMapFs()

	var idf bytes.Buffer
	gz := gzip.NewWriter(&idf)
	_, err := gz.Write([]byte(IDF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	files := map[string][]byte{
		"/resources/lexicon/softwareVoc.txt":              []byte(Vocabulary),
		"/resources/lexicon/idf.label.en.txt.gz":          idf.Bytes(),
		"/resources/lexicon/wikipedia.categories.txt":     []byte(Categories),
		"/resources/lexicon/wikidata.P31.txt":             []byte("Q7397\nQ341\n"),
		"/resources/lexicon/wikidata.P279.txt":            []byte("Q9143\n"),
		"/resources/lexicon/stopwords_en.txt":             []byte(Stopwords),
		"/resources/lexicon/programming_languages.csv":    []byte(Languages),
		"/resources/lexicon/blacklist_software_names.txt": []byte(Blacklist),
		"/resources/lexicon/addresses.txt":                []byte(Addresses),
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, content, 0644))
	}

	return fs, lexicon.Config{
		Vocabulary:     "/resources/lexicon/softwareVoc.txt",
		IDF:            "/resources/lexicon/idf.label.en.txt.gz",
		Categories:     "/resources/lexicon/wikipedia.categories.txt",
		PropertyValues: []string{"/resources/lexicon/wikidata.P31.txt", "/resources/lexicon/wikidata.P279.txt"},
		Stopwords:      "/resources/lexicon/stopwords_en.txt",
		Languages:      "/resources/lexicon/programming_languages.csv",
		Blacklist:      "/resources/lexicon/blacklist_software_names.txt",
		Addresses:      "/resources/lexicon/addresses.txt",
		CaseSensitive:  true,
	}
}

// Lexicon loads the fixture lexicon.
func Lexicon(t testing.TB) *lexicon.Lexicon {
	fs, conf := LexiconFs(t)
	lex, err := lexicon.Load(fs, conf)
	require.NoError(t, err)
	return lex
}
