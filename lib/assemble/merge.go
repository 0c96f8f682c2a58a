package assemble

import "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"

var mergedLabels = []model.Label{model.Version, model.Creator, model.SoftwareURL}

// Merge fills the empty version, creator and URL slots and the empty
// reference list of each entity from the other one. Nothing already set is
// replaced, so the order of the arguments does not change the result. Both
// entities are assumed to denote the same software.
func Merge(a, b model.Entity) (model.Entity, model.Entity) {
	for _, label := range mergedLabels {
		fa, fb := a.Field(label), b.Field(label)
		switch {
		case fa == nil && fb != nil:
			a = a.WithField(*fb)
		case fb == nil && fa != nil:
			b = b.WithField(*fa)
		}
	}

	switch {
	case len(a.References) == 0 && len(b.References) > 0:
		a.References = append([]model.BiblioComponent(nil), b.References...)
	case len(b.References) == 0 && len(a.References) > 0:
		b.References = append([]model.BiblioComponent(nil), a.References...)
	}

	return a, b
}

// mergeKnowledge copies the knowledge base link of the name from the linked
// entity to the unlinked one.
func mergeKnowledge(a, b model.Entity) (model.Entity, model.Entity) {
	ka, kb := a.SoftwareName.Knowledge, b.SoftwareName.Knowledge
	switch {
	case ka.Linked() && !kb.Linked():
		b = b.WithField(b.SoftwareName.WithKnowledge(ka).WithLang(a.SoftwareName.Lang))
		if b.EntityID == "" {
			b.EntityID = a.EntityID
		}
	case kb.Linked() && !ka.Linked():
		a = a.WithField(a.SoftwareName.WithKnowledge(kb).WithLang(b.SoftwareName.Lang))
		if a.EntityID == "" {
			a.EntityID = b.EntityID
		}
	}
	return a, b
}

// MergeByName merges every pair of entities sharing a normalized name, copies
// knowledge base links between them and sets their document level context
// attributes to the strongest mention level decision of the group. The input
// slice is left untouched.
func MergeByName(entities []model.Entity) []model.Entity {
	result := make([]model.Entity, len(entities))
	copy(result, entities)

	groups := map[string][]int{}
	var names []string
	for i, e := range result {
		name := e.NormalizedName()
		if name == "" {
			continue
		}
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], i)
	}

	for _, name := range names {
		group := groups[name]
		for x := 0; x < len(group); x++ {
			for y := x + 1; y < len(group); y++ {
				i, j := group[x], group[y]
				result[i], result[j] = Merge(result[i], result[j])
				result[i], result[j] = mergeKnowledge(result[i], result[j])
			}
		}

		var document *model.SoftwareContextAttributes
		for _, i := range group {
			if mention := result[i].MentionContext; mention != nil {
				if document == nil {
					m := *mention
					document = &m
				} else {
					m := document.Max(*mention)
					document = &m
				}
			}
		}
		if document == nil {
			continue
		}
		for _, i := range group {
			d := *document
			result[i].DocumentContext = &d
		}
	}

	return result
}
