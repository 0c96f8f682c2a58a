package snippet_reader

import (
	"io"
)

// Snippet is a paragraph of a document. Offset is the byte position of Text
// in the input the paragraph was read from.
type Snippet struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Xpath  string `json:"xpath,omitempty"`
}

type Client interface {
	ReadSnippets(r io.Reader) <-chan Value
	ReadSnippetsWithCallback(r io.Reader, onSnippet func(*Snippet) error) error
}

// Value is sent by readers for each snippet. The last value of a channel
// carries io.EOF or the error that stopped the reader.
type Value struct {
	Snippet *Snippet
	Err     error
}

func ReadChannelWithCallback(snipReaderValues <-chan Value, callback func(snippet *Snippet) error) error {
	// unblock the reader if we return early
	defer func() {
		for range snipReaderValues {
		}
	}()

	for readerValue := range snipReaderValues {
		if readerValue.Err == io.EOF {
			break
		} else if readerValue.Err != nil {
			return readerValue.Err
		}
		if err := callback(readerValue.Snippet); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll collects every snippet of r.
func ReadAll(client Client, r io.Reader) ([]Snippet, error) {
	var snippets []Snippet
	err := client.ReadSnippetsWithCallback(r, func(snippet *Snippet) error {
		snippets = append(snippets, *snippet)
		return nil
	})
	return snippets, err
}
