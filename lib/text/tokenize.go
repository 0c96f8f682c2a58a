package text

import (
	"unicode/utf8"

	"github.com/blevesearch/segment"
	"github.com/rs/zerolog/log"
)

// Tokenize splits s into word, number, punctuation and whitespace segments.
// Nothing is dropped, so Join(Tokenize(s, 0)) == s. Each token's offset is
// shifted by offset so that tokens of a paragraph carry document positions.
// An invalid UTF-8 sequence becomes a token of its own.
func Tokenize(s string, offset int) []Token {
	tokens := make([]Token, 0, len(s)/3)

	position := 0
	for position < len(s) {
		segmenter := segment.NewWordSegmenterDirect([]byte(s[position:]))
		for segmenter.Segment() {
			segmentBytes := segmenter.Bytes()
			tokens = append(tokens, Token{
				Text:   string(segmentBytes),
				Offset: offset + position,
			})
			position += len(segmentBytes)
		}
		if err := segmenter.Err(); err != nil {
			log.Warn().Err(err).Int("position", offset+position).Msg("tokenizer stopped early")
		}
		if position >= len(s) {
			break
		}

		// the segmenter stops silently on invalid utf-8
		_, size := utf8.DecodeRuneInString(s[position:])
		tokens = append(tokens, Token{Text: s[position : position+size], Offset: offset + position})
		position += size
	}

	return tokens
}

// TokenizeWords returns the texts of the non-blank tokens of s. This is the
// analyzer applied to vocabulary lines.
func TokenizeWords(s string) []string {
	var words []string
	for _, t := range Tokenize(s, 0) {
		if !t.IsBlank() {
			words = append(words, t.Text)
		}
	}
	return words
}
