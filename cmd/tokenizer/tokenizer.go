package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/features"
	snippet_reader "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader/html"
	plain "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader/text"
)

const (
	plainFormat = "text"
	htmlFormat  = "html"
)

type tokenizer struct {
	lexicon features.Lexicon
}

func snippetReader(format string) (snippet_reader.Client, error) {
	switch format {
	case plainFormat:
		return plain.SnippetReader{}, nil
	case htmlFormat:
		return html.SnippetReader{}, nil
	}
	return nil, fmt.Errorf("unsupported document format %q", format)
}

// run writes one JSON line per paragraph of r: the paragraph and its
// annotated tokens.
func (t tokenizer) run(format string, r io.Reader, w io.Writer) (int, error) {
	reader, err := snippetReader(format)
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(w)
	count := 0
	err = features.Read(t.lexicon, reader, r, func(snippet features.Snippet) error {
		count++
		return enc.Encode(snippet)
	})
	return count, err
}
