package assemble

import (
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

// AddContext sets the context of every entity whose name lies in paragraph
// to the sentences covering the name. offset is the document position of
// paragraph. With withParagraph the whole paragraph is attached as well.
// Entities outside the paragraph are returned unchanged.
func AddContext(entities []model.Entity, paragraph string, offset int, withParagraph bool) []model.Entity {
	sentences := text.Sentences(paragraph)
	bounds := text.OffsetPosition{Start: offset, End: offset + len(paragraph)}

	result := make([]model.Entity, len(entities))
	for i, e := range entities {
		result[i] = e
		if e.Empty() || !bounds.Contains(e.SoftwareName.Offsets) {
			continue
		}

		name := text.OffsetPosition{
			Start: e.SoftwareName.Offsets.Start - offset,
			End:   e.SoftwareName.Offsets.End - offset,
		}
		span, ok := covering(sentences, name)
		if !ok {
			continue
		}

		e = e.WithContext(paragraph[span.Start:span.End], offset+span.Start)
		if withParagraph {
			e = e.WithParagraph(paragraph)
		}
		result[i] = e
	}
	return result
}

// covering returns the smallest run of sentences holding span.
func covering(sentences []text.OffsetPosition, span text.OffsetPosition) (text.OffsetPosition, bool) {
	first, last := -1, -1
	for i, s := range sentences {
		if s.End <= span.Start {
			continue
		}
		if s.Start >= span.End {
			break
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return text.OffsetPosition{}, false
	}
	return text.OffsetPosition{Start: sentences[first].Start, End: sentences[last].End}, true
}
