// Package assemble turns the labelled components of one document into
// software entities and post-processes them: bibliographic attachment, type
// refinement, name propagation, merging and context.
//
// Nothing here keeps state between calls. Every function works on its own
// input and returns fresh values, so documents can be processed concurrently
// against a shared Lexicon.
package assemble

import (
	"sort"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/normalize"
)

type Assembler struct {
	normalizer normalize.Normalizer
}

func New(normalizer normalize.Normalizer) *Assembler {
	return &Assembler{normalizer: normalizer}
}

// item is one element of the document stream: a component or a reference callout.
type item struct {
	component *model.Component
	ref       *model.BiblioComponent
	start     int
}

// Assemble groups components and reference callouts, taken in document
// order, into entities. Each software name opens a new entity. Versions,
// creators and URLs go to the open entity when their slot is free, and a
// version may replace the one held when it is a better fit. Reference
// callouts are always appended. Components seen before the first name go to
// the first entity. Components labelled Other are ignored, and no entity is
// produced without a name.
func (a *Assembler) Assemble(components []model.Component, refs []model.BiblioComponent) []model.Entity {
	stream := make([]item, 0, len(components)+len(refs))
	for i := range components {
		stream = append(stream, item{component: &components[i], start: components[i].Offsets.Start})
	}
	for i := range refs {
		stream = append(stream, item{ref: &refs[i], start: refs[i].Offsets.Start})
	}
	sort.SliceStable(stream, func(i, j int) bool {
		return stream[i].start < stream[j].start
	})

	var (
		entities    []model.Entity
		current     model.Entity
		open        bool
		pending     []model.Component
		pendingRefs []model.BiblioComponent
	)

	for _, it := range stream {
		if it.ref != nil {
			if open {
				current = current.WithReference(*it.ref)
			} else {
				pendingRefs = append(pendingRefs, *it.ref)
			}
			continue
		}

		c := a.normalizer.Component(*it.component)
		switch c.Label {
		case model.Software:
			if open {
				entities = append(entities, current)
			}
			current = model.NewEntity(c)
			open = true

			for _, p := range pending {
				current = attach(current, p)
			}
			for _, r := range pendingRefs {
				current = current.WithReference(r)
			}
			pending, pendingRefs = nil, nil
		case model.Version, model.Creator, model.SoftwareURL:
			if open {
				current = attach(current, c)
			} else {
				pending = append(pending, c)
			}
		case model.Other:
		}
	}

	if open {
		entities = append(entities, current)
	}
	return entities
}

func attach(e model.Entity, c model.Component) model.Entity {
	if e.FreeField(c.Label) || e.BetterField(c) {
		return e.WithField(c)
	}
	return e
}

// Sort orders entities by the span of their names.
func Sort(entities []model.Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Compare(entities[j]) < 0
	})
}
