// Package serialize projects software entities to their JSON representation.
package serialize

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
)

// InvalidStringMarker replaces a string field that cannot be encoded.
const InvalidStringMarker = "JsonProcessingException"

var newlines = strings.NewReplacer("\r", " ", "\n", " ")

// clean replaces each newline by a space, so offsets into the text still
// hold, and substitutes strings that are not valid UTF-8.
func clean(s string) string {
	if !utf8.ValidString(s) {
		return InvalidStringMarker
	}
	return newlines.Replace(s)
}

func fourDecimals(f float64) json.Number {
	return json.Number(strconv.FormatFloat(f, 'f', 4, 64))
}

type Component struct {
	RawForm              string              `json:"rawForm"`
	NormalizedForm       string              `json:"normalizedForm,omitempty"`
	WikidataID           string              `json:"wikidataId,omitempty"`
	WikipediaExternalRef int                 `json:"wikipediaExternalRef,omitempty"`
	Lang                 string              `json:"lang,omitempty"`
	Confidence           json.Number         `json:"confidence,omitempty"`
	OffsetStart          int                 `json:"offsetStart"`
	OffsetEnd            int                 `json:"offsetEnd"`
	BoundingBoxes        []model.BoundingBox `json:"boundingBoxes,omitempty"`
}

type Reference struct {
	Label                string              `json:"label,omitempty"`
	RefKey               int                 `json:"refKey"`
	TEI                  string              `json:"tei,omitempty"`
	WikidataID           string              `json:"wikidataId,omitempty"`
	WikipediaExternalRef int                 `json:"wikipediaExternalRef,omitempty"`
	Confidence           json.Number         `json:"confidence,omitempty"`
	OffsetStart          int                 `json:"offsetStart"`
	OffsetEnd            int                 `json:"offsetEnd"`
	BoundingBoxes        []model.BoundingBox `json:"boundingBoxes,omitempty"`
}

type Attribute struct {
	Value bool        `json:"value"`
	Score json.Number `json:"score"`
}

type ContextAttributes struct {
	Used    Attribute `json:"used"`
	Created Attribute `json:"created"`
	Shared  Attribute `json:"shared"`
}

type Entity struct {
	Type                 string             `json:"type"`
	WikidataID           string             `json:"wikidataId,omitempty"`
	WikipediaExternalRef int                `json:"wikipediaExternalRef,omitempty"`
	Lang                 string             `json:"lang,omitempty"`
	Confidence           json.Number        `json:"confidence,omitempty"`
	SoftwareName         Component          `json:"software-name"`
	ID                   string             `json:"id,omitempty"`
	Version              *Component         `json:"version,omitempty"`
	Publisher            *Component         `json:"publisher,omitempty"`
	URL                  *Component         `json:"url,omitempty"`
	Language             *Component         `json:"language,omitempty"`
	Context              string             `json:"context,omitempty"`
	ContextOffset        *int               `json:"contextOffset,omitempty"`
	Paragraph            string             `json:"paragraph,omitempty"`
	Propagated           bool               `json:"propagated,omitempty"`
	Filtered             bool               `json:"filtered,omitempty"`
	References           []Reference        `json:"references,omitempty"`
	MentionContext       *ContextAttributes `json:"mentionContextAttributes,omitempty"`
	DocumentContext      *ContextAttributes `json:"documentContextAttributes,omitempty"`
}

func knowledge(k model.KnowledgeAttributes) (id string, pageRef int, confidence json.Number) {
	if !k.Linked() {
		return "", 0, ""
	}
	if k.HasPageRef() {
		pageRef = k.PageRef
	}
	return clean(k.KnowledgeID), pageRef, fourDecimals(k.Score)
}

func NewComponent(c model.Component) Component {
	out := Component{
		RawForm:        clean(c.RawForm),
		NormalizedForm: clean(c.NormalizedForm),
		Lang:           clean(c.Lang),
		OffsetStart:    c.Offsets.Start,
		OffsetEnd:      c.Offsets.End,
		BoundingBoxes:  c.BoundingBoxes,
	}
	out.WikidataID, out.WikipediaExternalRef, out.Confidence = knowledge(c.Knowledge)
	return out
}

func optionalComponent(c *model.Component) *Component {
	if c == nil {
		return nil
	}
	out := NewComponent(*c)
	return &out
}

func NewReference(r model.BiblioComponent) Reference {
	out := Reference{
		Label:         clean(r.RawForm),
		RefKey:        r.RefKey,
		TEI:           clean(r.Record),
		OffsetStart:   r.Offsets.Start,
		OffsetEnd:     r.Offsets.End,
		BoundingBoxes: r.BoundingBoxes,
	}
	out.WikidataID, out.WikipediaExternalRef, out.Confidence = knowledge(r.Knowledge)
	return out
}

func contextAttributes(a *model.SoftwareContextAttributes) *ContextAttributes {
	if a == nil {
		return nil
	}
	attribute := func(c model.ContextAttribute) Attribute {
		return Attribute{Value: c.Value, Score: fourDecimals(c.Score)}
	}
	return &ContextAttributes{
		Used:    attribute(a.Used),
		Created: attribute(a.Created),
		Shared:  attribute(a.Shared),
	}
}

// NewEntity projects e. ok is false for an entity without a name, which has no representation.
func NewEntity(e model.Entity) (out Entity, ok bool) {
	if e.Empty() {
		return Entity{}, false
	}

	out = Entity{
		Type:            e.Type.String(),
		SoftwareName:    NewComponent(*e.SoftwareName),
		ID:              clean(e.EntityID),
		Version:         optionalComponent(e.Version),
		Publisher:       optionalComponent(e.Creator),
		URL:             optionalComponent(e.URL),
		Language:        optionalComponent(e.Language),
		Propagated:      e.Propagated,
		Filtered:        e.Filtered,
		MentionContext:  contextAttributes(e.MentionContext),
		DocumentContext: contextAttributes(e.DocumentContext),
	}
	out.WikidataID = out.SoftwareName.WikidataID
	out.WikipediaExternalRef = out.SoftwareName.WikipediaExternalRef
	out.Lang = out.SoftwareName.Lang
	out.Confidence = out.SoftwareName.Confidence

	if e.HasContext() {
		out.Context = clean(e.Context)
		offset := e.ContextOffset
		out.ContextOffset = &offset
	}
	out.Paragraph = clean(e.Paragraph)

	for _, r := range e.References {
		out.References = append(out.References, NewReference(r))
	}
	return out, true
}

// Entities projects the renderable entities. Filtered entities are left out
// unless withFiltered is set.
func Entities(entities []model.Entity, withFiltered bool) []Entity {
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if e.Filtered && !withFiltered {
			continue
		}
		if projected, ok := NewEntity(e); ok {
			out = append(out, projected)
		}
	}
	return out
}

// Marshal encodes the renderable entities as a JSON array.
func Marshal(entities []model.Entity, withFiltered bool) ([]byte, error) {
	return json.Marshal(Entities(entities, withFiltered))
}
