package text

import (
	"bufio"
	"io"
	"strings"

	snippet_reader "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader"
)

// SnippetReader reads plain text, one paragraph per line. Blank lines are
// skipped and line terminators are not part of the snippets.
type SnippetReader struct{}

func (t SnippetReader) ReadSnippets(r io.Reader) <-chan snippet_reader.Value {
	return ReadSnippets(r)
}

func (t SnippetReader) ReadSnippetsWithCallback(r io.Reader, onSnippet func(*snippet_reader.Snippet) error) error {
	snips := ReadSnippets(r)
	return snippet_reader.ReadChannelWithCallback(snips, onSnippet)
}

func ReadSnippets(r io.Reader) <-chan snippet_reader.Value {
	snips := make(chan snippet_reader.Value)
	go readLines(r, snips)
	return snips
}

func readLines(r io.Reader, values chan snippet_reader.Value) {
	defer close(values)

	reader := bufio.NewReader(r)
	offset := 0
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			paragraph := strings.TrimRight(line, "\r\n")
			if strings.TrimSpace(paragraph) != "" {
				values <- snippet_reader.Value{
					Snippet: &snippet_reader.Snippet{
						Text:   paragraph,
						Offset: offset,
					},
				}
			}
			offset += len(line)
		}
		if err != nil {
			values <- snippet_reader.Value{Err: err}
			return
		}
	}
}
