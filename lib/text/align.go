package text

import "regexp"

// URLPattern matches URLs, tolerating the stray whitespace left by PDF extraction
// around the scheme separator and inside the path.
var URLPattern = regexp.MustCompile(`(?i)(https?|ftp)\s?:\s?//\s?[-A-Z0-9+&@#/%?=~_()|!:,.;\s]*[-A-Z0-9+&@#/%=~_()|]`)

// AlignCharacterSpans maps half-open character spans computed over Join(tokens)
// to inclusive token-index spans. Spans must be sorted by start. A span running
// past the end of the text is closed at the last token; a span starting past
// the end of the text has no token and is dropped. Tokens with empty text
// never open or close a span.
func AlignCharacterSpans(tokens []Token, spans []OffsetPosition) []OffsetPosition {
	result := make([]OffsetPosition, 0, len(spans))

	i := 0
	cursor := 0
	for _, span := range spans {
		// skip tokens ending at or before the span start
		for i < len(tokens) && (tokens[i].Text == "" || cursor+len(tokens[i].Text) <= span.Start) {
			cursor += len(tokens[i].Text)
			i++
		}
		if i == len(tokens) {
			break
		}

		start := i
		end := i
		for i < len(tokens) {
			if tokens[i].Text == "" {
				i++
				continue
			}
			cursor += len(tokens[i].Text)
			end = i
			i++
			if cursor >= span.End {
				break
			}
		}
		result = append(result, OffsetPosition{Start: start, End: end})
	}

	return result
}

// URLPositions returns the token-index spans of the URLs found in the text of tokens.
func URLPositions(tokens []Token) []OffsetPosition {
	locs := URLPattern.FindAllStringIndex(Join(tokens), -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]OffsetPosition, len(locs))
	for i, loc := range locs {
		spans[i] = OffsetPosition{Start: loc[0], End: loc[1]}
	}
	return AlignCharacterSpans(tokens, spans)
}

// URLPositionsLabeled is URLPositions over tagger pairs. Pair texts are
// concatenated as they are, so whitespace pairs must be present for the
// reconstruction to match the source text.
func URLPositionsLabeled(pairs []LabeledToken) []OffsetPosition {
	return URLPositions(FromLabeled(pairs))
}
