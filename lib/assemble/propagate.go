package assemble

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/matcher"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

// MinTFIDF is the tf-idf under which a known term is too common to be propagated.
const MinTFIDF = 0.001

func termKey(term string) string {
	return norm.NFC.String(strings.Join(text.TokenizeWords(term), " "))
}

// propagationTerms returns the names worth looking for, keyed by termKey,
// with the index of the entity each one comes from.
func propagationTerms(entities []model.Entity, lex Lexicon) ([]string, map[string]int) {
	var terms []string
	sources := map[string]int{}

	add := func(term string, i int) {
		key := termKey(term)
		if key == "" {
			return
		}
		if _, ok := sources[key]; ok {
			return
		}
		sources[key] = i
		terms = append(terms, term)
	}

	for i, e := range entities {
		if e.Empty() || e.Type == model.EntityImplicit {
			continue
		}
		term := text.CollapseSpaces(e.SoftwareName.RawForm)
		if term == "" {
			continue
		}
		// a capitalised stopword at the start of a sentence is not a name
		if text.FirstCapital(term) && lex.IsStopword(strings.ToLower(term)) {
			continue
		}
		add(term, i)
		if n := e.SoftwareName.NormalizedForm; n != "" && n != term {
			add(n, i)
		}
	}
	return terms, sources
}

func takenPositions(entities []model.Entity) []text.OffsetPosition {
	var taken []text.OffsetPosition
	for _, e := range entities {
		if e.Empty() {
			continue
		}
		taken = append(taken, e.SoftwareName.Offsets)
		for _, label := range mergedLabels {
			if c := e.Field(label); c != nil {
				taken = append(taken, c.Offsets)
			}
		}
	}
	return taken
}

func overlapsAny(taken []text.OffsetPosition, span text.OffsetPosition) bool {
	for _, t := range taken {
		if t.Overlaps(span) {
			return true
		}
	}
	return false
}

// Propagate looks for further occurrences of the names of entities in tokens
// and adds a propagated entity for each one. Matching is case sensitive.
// Single characters other than "R" are not propagated, nor are occurrences
// overlapping a component already found, nor terms so frequent in the
// collection that their tf-idf is positive but below MinTFIDF. The returned
// slice holds the input entities followed by the new ones, sorted by name.
func Propagate(tokens []text.Token, entities []model.Entity, lex Lexicon) []model.Entity {
	result := append([]model.Entity(nil), entities...)

	terms, sources := propagationTerms(entities, lex)
	if len(terms) == 0 {
		return result
	}

	positions := matcher.New(true, terms...).Match(tokens)

	matched := make([]string, len(positions))
	frequencies := map[string]int{}
	for i, p := range positions {
		matched[i] = text.CollapseSpaces(text.Join(tokens[p.Start : p.End+1]))
		frequencies[termKey(matched[i])]++
	}

	taken := takenPositions(entities)
	for i, p := range positions {
		term := matched[i]
		if utf8.RuneCountInString(term) == 1 && term != "R" {
			continue
		}

		span := text.OffsetPosition{Start: tokens[p.Start].Offset, End: tokens[p.End].End()}
		if overlapsAny(taken, span) {
			continue
		}

		key := termKey(term)
		source, ok := sources[key]
		if !ok {
			continue
		}

		tfidf := float64(frequencies[key]) * lex.TermIDF(term)
		if tfidf > 0 && tfidf <= MinTFIDF {
			continue
		}

		name := entities[source].SoftwareName.PropagatedCopy().
			WithRawForm(term).
			WithOffsets(span).
			WithTokens(tokens[p.Start : p.End+1])
		e := model.NewEntity(name)
		e.Propagated = true
		result = append(result, e)
		taken = append(taken, span)
	}

	Sort(result)
	return result
}
