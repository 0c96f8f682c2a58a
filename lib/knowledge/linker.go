// Package knowledge links software entities to knowledge base records.
package knowledge

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
)

// Vocabulary tells which knowledge base values identify software.
type Vocabulary interface {
	IsKnownPropertyValue(value string) bool
	IsKnownCategory(value string) bool
}

type Linker struct {
	store      Store
	vocabulary Vocabulary
}

func NewLinker(store Store, vocabulary Vocabulary) *Linker {
	return &Linker{store: store, vocabulary: vocabulary}
}

// Software reports whether the record describes software: one of its P31 or
// P279 values or one of its categories must be known.
func (l *Linker) Software(lookup *cache.Lookup) bool {
	for _, values := range [][]string{lookup.P31, lookup.P279} {
		for _, v := range values {
			if l.vocabulary.IsKnownPropertyValue(v) {
				return true
			}
		}
	}
	for _, c := range lookup.Categories {
		if l.vocabulary.IsKnownCategory(c) {
			return true
		}
	}
	return false
}

// Link looks up the normalized name of every entity. Records describing
// software set the knowledge attributes of the name and the entity id; other
// records mark the entity as filtered and are not attached. Entities without
// a record are returned unchanged.
func (l *Linker) Link(ctx context.Context, entities []model.Entity) ([]model.Entity, error) {
	seen := make(map[string]struct{})
	var names []string
	for _, e := range entities {
		name := e.NormalizedName()
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if len(names) == 0 {
		return entities, nil
	}

	found, err := l.store.Lookup(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("knowledge base lookup: %w", err)
	}
	log.Debug().Int("names", len(names)).Int("found", len(found)).Msg("knowledge base lookup")

	result := make([]model.Entity, len(entities))
	for i, e := range entities {
		result[i] = e
		lookup, ok := found[e.NormalizedName()]
		if !ok || e.Empty() {
			continue
		}
		if !l.Software(lookup) {
			e.Filtered = true
			result[i] = e
			continue
		}

		k := model.KnowledgeAttributes{
			KnowledgeID: lookup.WikidataID,
			PageRef:     model.NoPageRef,
			Score:       lookup.Score,
			Lang:        lookup.Lang,
		}
		if lookup.WikipediaExternalRef > 0 {
			k.PageRef = lookup.WikipediaExternalRef
		}
		e = e.WithField(e.SoftwareName.WithKnowledge(k).WithLang(lookup.Lang))
		e.EntityID = lookup.WikidataID
		result[i] = e
	}
	return result, nil
}
