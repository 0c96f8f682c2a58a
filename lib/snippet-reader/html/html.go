package html

import (
	"io"

	snippet_reader "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader"
	"golang.org/x/net/html"
)

// Text under these elements never reaches a paragraph.
var disallowedNodes = map[string]struct{}{
	"area":     {},
	"audio":    {},
	"link":     {},
	"meta":     {},
	"noscript": {},
	"script":   {},
	"source":   {},
	"style":    {},
	"input":    {},
	"textarea": {},
	"video":    {},
	"math":     {},
	"svg":      {},
}

// Inline elements whose text belongs to the enclosing paragraph.
var inlineNodes = map[string]struct{}{
	"span":   {},
	"sub":    {},
	"sup":    {},
	"b":      {},
	"del":    {},
	"i":      {},
	"ins":    {},
	"mark":   {},
	"q":      {},
	"s":      {},
	"strike": {},
	"strong": {},
	"u":      {},
	"big":    {},
	"small":  {},
	"a":      {},
	"em":     {},
	"emph":   {},
	"code":   {},
	"cite":   {},
	"ref":    {},
}

// Elements that never have an end tag.
var voidNodes = map[string]struct{}{
	"area":   {},
	"base":   {},
	"br":     {},
	"col":    {},
	"embed":  {},
	"hr":     {},
	"img":    {},
	"input":  {},
	"link":   {},
	"meta":   {},
	"source": {},
	"track":  {},
	"wbr":    {},
}

// SnippetReader reads the paragraphs of an HTML or TEI document: the text
// of each block element, with inline elements folded into their parent.
// A snippet offset is the position of the paragraph start in the raw markup.
type SnippetReader struct{}

func (SnippetReader) ReadSnippets(r io.Reader) <-chan snippet_reader.Value {
	return ReadSnippets(r)
}

func (SnippetReader) ReadSnippetsWithCallback(r io.Reader, onSnippet func(*snippet_reader.Snippet) error) error {
	return ReadSnippetsWithCallback(r, onSnippet)
}

func ReadSnippets(r io.Reader) <-chan snippet_reader.Value {
	snips := make(chan snippet_reader.Value)
	go htmlToText(r, snips)
	return snips
}

func ReadSnippetsWithCallback(r io.Reader, onSnippet func(*snippet_reader.Snippet) error) error {
	snips := ReadSnippets(r)
	return snippet_reader.ReadChannelWithCallback(snips, onSnippet)
}

// htmlToText walks the token stream keeping a stack of open elements. The
// text of an element is sent as a snippet when the element closes, followed
// by a newline. <br/> contributes a newline to the current paragraph.
func htmlToText(r io.Reader, snips chan snippet_reader.Value) {
	defer close(snips)

	tokenizer := html.NewTokenizer(r)
	var position int
	var stack htmlStack

	onPop := func(tag *htmlTag) error {
		if len(tag.innerText) > 0 {
			tag.innerText = append(tag.innerText, '\n')
			snips <- snippet_reader.Value{
				Snippet: &snippet_reader.Snippet{
					Text:   string(tag.innerText),
					Offset: tag.textStart,
					Xpath:  tag.xpath,
				},
			}
		}
		return nil
	}

	for {
		tokenType := tokenizer.Next()
		// Raw must be read first, the other accessors mutate the current token.
		size := len(tokenizer.Raw())

		switch tokenType {
		case html.ErrorToken:
			// io.EOF once the input is consumed
			snips <- snippet_reader.Value{Err: tokenizer.Err()}
			return
		case html.TextToken:
			if !stack.disallowed {
				stack.collectText(tokenizer.Text(), position)
			}
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if _, ok := voidNodes[string(name)]; ok {
				stack.void(string(name), position)
				break
			}
			stack.push(&htmlTag{name: string(name), textStart: -1})
		case html.EndTagToken:
			if err := stack.pop(onPop); err != nil {
				snips <- snippet_reader.Value{Err: err}
				return
			}
		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			stack.void(string(name), position)
		}
		position += size
	}
}
