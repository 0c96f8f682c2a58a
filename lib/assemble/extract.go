package assemble

import (
	"fmt"
	"sort"
	"strings"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

// Lexicon is the part of the lexical resources used by assembly.
type Lexicon interface {
	IsStopword(value string) bool
	IsBlacklistedName(name string) bool
	TermIDF(term string) float64
	ProgrammingLanguage(name string) (lexicon.LanguageInfo, bool)
}

// Tag is the label assigned to one token. Begin marks the first token of a
// chunk, so two adjacent chunks with the same label stay apart.
type Tag struct {
	Label model.Label
	Begin bool
}

// ParseTags reads one tagger label per token.
func ParseTags(labels []string) ([]Tag, error) {
	tags := make([]Tag, len(labels))
	for i, l := range labels {
		label, begin, err := model.ParseLabel(l)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		tags[i] = Tag{Label: label, Begin: begin}
	}
	return tags, nil
}

// cluster is a run of tokens sharing a label, as token indices (inclusive).
type cluster struct {
	label       model.Label
	first, last int
}

// clusters groups tokens by label. Blank tokens never open or close a
// cluster: they end up inside one when both neighbours belong to it and are
// otherwise left out.
func clusters(tokens []text.Token, tags []Tag) []cluster {
	var result []cluster
	open := false
	var current cluster

	for i, t := range tokens {
		if i >= len(tags) {
			break
		}
		if t.IsBlank() {
			continue
		}
		tag := tags[i]
		if open && tag.Label == current.label && !tag.Begin {
			current.last = i
			continue
		}
		if open {
			result = append(result, current)
		}
		current = cluster{label: tag.Label, first: i, last: i}
		open = true
	}
	if open {
		result = append(result, current)
	}
	return result
}

// keep applies the minimal well-formedness checks of each label.
func keep(label model.Label, content string, lex Lexicon) bool {
	malformed := text.IsDelimiter(content) || lex.IsStopword(content) || text.IsNumber(content)

	switch label {
	case model.Software:
		return !malformed && !lex.IsBlacklistedName(content)
	case model.SoftwareURL:
		return !malformed && strings.ReplaceAll(content, "\n", "") != "//"
	case model.Version:
		return !text.IsDelimiter(content)
	case model.Creator:
		return !malformed && !(strings.HasPrefix(content, "-") && strings.Contains(content, "\n"))
	case model.Other:
		return false
	}
	return false
}

// extracted is a component with the token-index span it was built from.
type extracted struct {
	component   model.Component
	first, last int
}

func newExtracted(label model.Label, tokens []text.Token, first, last int) extracted {
	span := tokens[first : last+1]
	raw := text.Join(span)
	offsets := text.OffsetPosition{Start: tokens[first].Offset, End: tokens[first].Offset + len(raw)}
	c := model.NewComponent(label, raw, offsets).WithTokens(span)
	return extracted{component: c, first: first, last: last}
}

// ExtractComponents builds components from tagged tokens. Consecutive tokens
// with the same label form one component; surrounding whitespace is left
// out. Components failing the checks of their label are dropped, URL
// components are widened to the URL written in the text, and the result is
// sorted by span.
func ExtractComponents(tokens []text.Token, tags []Tag, lex Lexicon) []model.Component {
	var found []extracted
	for _, cl := range clusters(tokens, tags) {
		e := newExtracted(cl.label, tokens, cl.first, cl.last)
		if !keep(cl.label, e.component.RawForm, lex) {
			continue
		}
		found = append(found, e)
	}

	found = widenURLs(found, tokens)

	components := make([]model.Component, len(found))
	for i, e := range found {
		components[i] = e.component
	}
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Compare(components[j]) < 0
	})
	return components
}

// widenURLs extends every URL component to the URL pattern match enclosing
// it, then keeps the longest of overlapping URL components.
func widenURLs(found []extracted, tokens []text.Token) []extracted {
	positions := text.URLPositions(tokens)
	if len(positions) == 0 {
		return found
	}

	for i, e := range found {
		if e.component.Label != model.SoftwareURL {
			continue
		}
		for _, p := range positions {
			if p.Start <= e.first && e.last <= p.End {
				widened := newExtracted(model.SoftwareURL, tokens, p.Start, p.End)
				widened.component = widened.component.
					WithConfidence(e.component.Confidence).
					WithBoundingBoxes(e.component.BoundingBoxes)
				found[i] = widened
				break
			}
		}
	}

	removed := make([]bool, len(found))
	for i := range found {
		if removed[i] || found[i].component.Label != model.SoftwareURL {
			continue
		}
		for j := i + 1; j < len(found); j++ {
			if removed[j] || found[j].component.Label != model.SoftwareURL {
				continue
			}
			a, b := found[i].component.Offsets, found[j].component.Offsets
			if !a.Overlaps(b) {
				continue
			}
			if a.End-a.Start < b.End-b.Start {
				removed[i] = true
				break
			}
			removed[j] = true
		}
	}

	kept := found[:0]
	for i, e := range found {
		if !removed[i] {
			kept = append(kept, e)
		}
	}
	return kept
}
