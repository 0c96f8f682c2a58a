package assemble

import (
	"strings"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/normalize"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

// LanguageDistanceMax is the largest gap in characters between a programming
// language mention and the software name it is attached to.
const LanguageDistanceMax = 20

// languageComponent turns a language span into a component linked to the
// programming language knowledge base id when known.
func languageComponent(t model.SoftwareType, label model.Label, lex Lexicon) model.Component {
	c := model.NewComponent(label, t.RawForm, t.Offsets).
		WithNormalizedForm(normalize.NormalizeSoftwareName(t.RawForm)).
		WithTokens(t.Tokens)
	if info, ok := lex.ProgrammingLanguage(t.RawForm); ok && info.KnowledgeID != "" {
		k := model.NoKnowledge
		k.KnowledgeID = info.KnowledgeID
		c = c.WithKnowledge(k)
	}
	return c
}

func tokensWithin(tokens []text.Token, span text.OffsetPosition) []text.Token {
	var within []text.Token
	for _, t := range tokens {
		if t.Offset >= span.Start && t.End() <= span.End {
			within = append(within, t)
		}
	}
	return within
}

// cutLanguage removes a leading or trailing language mention from a name.
// ok is false when the language is neither a prefix nor a suffix of the name
// or when nothing would be left of the name.
func cutLanguage(name model.Component, language model.SoftwareType) (model.Component, bool) {
	raw, lang := name.RawForm, language.RawForm
	if lang == "" {
		return name, false
	}

	offsets := name.Offsets
	switch {
	case strings.HasPrefix(raw, lang):
		raw = raw[len(lang):]
		offsets.Start += len(lang)
	case strings.HasSuffix(raw, lang):
		raw = raw[:len(raw)-len(lang)]
		offsets.End -= len(lang)
	default:
		return name, false
	}

	trimmed, left := text.TrimSpace(raw)
	if trimmed == "" {
		return name, false
	}
	offsets.Start += left
	offsets.End = offsets.Start + len(trimmed)

	return name.
		WithRawForm(trimmed).
		WithNormalizedForm(normalize.NormalizeSoftwareName(trimmed)).
		WithOffsets(offsets).
		WithTokens(tokensWithin(name.Tokens, offsets)).
		WithBoundingBoxes(nil), true
}

// RefineTypes applies the spans of the software type model to the entities:
//  - a language mention overlapping the start or the end of a name is cut
//    off the name and becomes the language of the entity,
//  - any other type overlapping a name sets the type of a software entity,
//  - implicit mentions not used so far become implicit entities,
//  - a language span equal to a name turns the entity into an environment,
//  - remaining language mentions go to the closest name within
//    LanguageDistanceMax characters, the name on the left winning unless the
//    right one is more than twice closer.
//
// Entities come back sorted by name.
func RefineTypes(entities []model.Entity, types []model.SoftwareType, lex Lexicon) []model.Entity {
	result := make([]model.Entity, 0, len(entities))
	for _, e := range entities {
		if !e.Empty() {
			result = append(result, e)
		}
	}
	consumed := make([]bool, len(types))

	for i := range result {
		for j, t := range types {
			if consumed[j] {
				continue
			}
			name := *result[i].SoftwareName
			if !t.Offsets.Overlaps(name.Offsets) {
				continue
			}

			switch {
			case t.Label == model.TypeLanguage && t.Offsets != name.Offsets:
				cut, ok := cutLanguage(name, t)
				if !ok {
					continue
				}
				result[i] = result[i].
					WithField(cut).
					WithLanguage(languageComponent(t, model.Other, lex))
				consumed[j] = true
			case t.Label != model.TypeLanguage && result[i].Type == model.EntitySoftware:
				if entityType, ok := t.Label.EntityType(); ok {
					result[i] = result[i].WithType(entityType)
				}
				consumed[j] = true
			}
		}
	}

	for j, t := range types {
		if consumed[j] || t.Label != model.TypeImplicit {
			continue
		}
		e := model.NewEntity(languageComponent(t, model.Software, lex).WithKnowledge(model.NoKnowledge))
		result = append(result, e.WithType(model.EntityImplicit))
		consumed[j] = true
	}

	for j, t := range types {
		if consumed[j] || t.Label != model.TypeLanguage {
			continue
		}
		for i := range result {
			if result[i].SoftwareName.Offsets == t.Offsets {
				result[i] = result[i].WithType(model.EntityEnvironment)
				consumed[j] = true
			}
		}
	}

	Sort(result)

	for j, t := range types {
		if consumed[j] || t.Label != model.TypeLanguage {
			continue
		}
		if i := closestEntity(result, t.Offsets); i >= 0 {
			result[i] = result[i].WithLanguage(languageComponent(t, model.Other, lex))
			consumed[j] = true
		}
	}

	return result
}

// closestEntity returns the index of the entity a language span should be
// attached to, or -1. entities must be sorted by name.
func closestEntity(entities []model.Entity, span text.OffsetPosition) int {
	left, right := -1, -1
	for i, e := range entities {
		if e.SoftwareName.Offsets.End < span.Start {
			left = i
			continue
		}
		if e.SoftwareName.Offsets.Start > span.End && right < 0 {
			right = i
		}
	}

	switch {
	case left < 0 && right < 0:
		return -1
	case left < 0:
		if entities[right].SoftwareName.Offsets.Start-span.End <= LanguageDistanceMax {
			return right
		}
		return -1
	case right < 0:
		if span.Start-entities[left].SoftwareName.Offsets.End <= LanguageDistanceMax {
			return left
		}
		return -1
	}

	distLeft := span.Start - entities[left].SoftwareName.Offsets.End
	distRight := entities[right].SoftwareName.Offsets.Start - span.End
	switch {
	case distLeft > LanguageDistanceMax && distRight <= LanguageDistanceMax:
		return right
	case distLeft <= LanguageDistanceMax && distRight > LanguageDistanceMax:
		return left
	case distLeft <= LanguageDistanceMax && distRight <= LanguageDistanceMax:
		if distRight*2 < distLeft {
			return right
		}
		return left
	}
	return -1
}
