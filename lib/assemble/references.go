package assemble

import (
	"sort"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
)

// DefaultIntervalMax is the number of characters a reference callout may sit
// after the last component of an entity and still be attached to it.
const DefaultIntervalMax = 5

func sortedRefs(refs []model.BiblioComponent) []model.BiblioComponent {
	sorted := append([]model.BiblioComponent(nil), refs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offsets.Start < sorted[j].Offsets.Start
	})
	return sorted
}

// AttachRefBib attaches to each entity the callouts found between the end of
// its name and intervalMax characters after its last component. Every
// attached callout extends the window to its own end, so a run of callouts
// is attached together.
func AttachRefBib(entities []model.Entity, refs []model.BiblioComponent, intervalMax int) []model.Entity {
	refs = sortedRefs(refs)
	result := make([]model.Entity, 0, len(entities))

	for _, e := range entities {
		if e.Empty() {
			result = append(result, e)
			continue
		}

		pos := e.SoftwareName.Offsets.End
		end := pos
		for _, label := range mergedLabels {
			if c := e.Field(label); c != nil && c.Offsets.End > end {
				end = c.Offsets.End
			}
		}

		for _, ref := range refs {
			if ref.Offsets.Start >= pos && ref.Offsets.Start <= end+intervalMax {
				e = e.WithReference(ref)
				end = ref.Offsets.End
			}
		}
		result = append(result, e)
	}

	return result
}

// FilterByRefCallout removes versions that are in fact reference callouts,
// that is versions whose span contains a callout.
func FilterByRefCallout(entities []model.Entity, refs []model.BiblioComponent) []model.Entity {
	result := make([]model.Entity, len(entities))
	for i, e := range entities {
		if e.Version != nil {
			for _, ref := range refs {
				if e.Version.Offsets.Contains(ref.Offsets) {
					e = e.WithoutField(model.Version)
					break
				}
			}
		}
		result[i] = e
	}
	return result
}
