package model

import "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"

// DefaultConfidence is the confidence of a component when the labeller gives none.
const DefaultConfidence = 0.8

// NoPageRef marks an absent Wikipedia page reference.
const NoPageRef = -1

// KnowledgeAttributes link a component, entity or reference to a knowledge base record.
type KnowledgeAttributes struct {
	KnowledgeID string
	PageRef     int
	Score       float64
	Lang        string
}

// NoKnowledge is the unlinked state.
var NoKnowledge = KnowledgeAttributes{PageRef: NoPageRef}

// Linked reports whether a knowledge base id is set. Score is only meaningful when it is.
func (k KnowledgeAttributes) Linked() bool {
	return k.KnowledgeID != ""
}

// HasPageRef reports whether a Wikipedia page id is set. Page ids are
// positive, so both NoPageRef and the zero value read as absent.
func (k KnowledgeAttributes) HasPageRef() bool {
	return k.PageRef > 0
}

type BoundingBox struct {
	Page int     `json:"p"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// Component is one labelled span. It is a value: the With methods return
// modified copies and never touch the receiver. Offsets are a half-open
// character span in the document.
type Component struct {
	Label          Label
	RawForm        string
	NormalizedForm string
	Tokens         []text.Token
	Offsets        text.OffsetPosition
	Confidence     float64
	BoundingBoxes  []BoundingBox
	Origin         Origin
	Lang           string
	Knowledge      KnowledgeAttributes
}

func NewComponent(label Label, raw string, offsets text.OffsetPosition) Component {
	return Component{
		Label:      label,
		RawForm:    raw,
		Offsets:    offsets,
		Confidence: DefaultConfidence,
		Origin:     OriginSystem,
		Knowledge:  NoKnowledge,
	}
}

func (c Component) WithLabel(label Label) Component {
	c.Label = label
	return c
}

func (c Component) WithRawForm(raw string) Component {
	c.RawForm = raw
	return c
}

func (c Component) WithNormalizedForm(normalized string) Component {
	c.NormalizedForm = normalized
	return c
}

func (c Component) WithTokens(tokens []text.Token) Component {
	c.Tokens = tokens
	return c
}

func (c Component) WithOffsets(offsets text.OffsetPosition) Component {
	c.Offsets = offsets
	return c
}

// WithConfidence clamps confidence to [0,1].
func (c Component) WithConfidence(confidence float64) Component {
	switch {
	case confidence < 0:
		confidence = 0
	case confidence > 1:
		confidence = 1
	}
	c.Confidence = confidence
	return c
}

func (c Component) WithBoundingBoxes(boxes []BoundingBox) Component {
	c.BoundingBoxes = boxes
	return c
}

func (c Component) WithOrigin(origin Origin) Component {
	c.Origin = origin
	return c
}

func (c Component) WithLang(lang string) Component {
	c.Lang = lang
	return c
}

func (c Component) WithKnowledge(k KnowledgeAttributes) Component {
	c.Knowledge = k
	return c
}

// HasNormalizedForm reports whether a normalized form was set.
func (c Component) HasNormalizedForm() bool {
	return c.NormalizedForm != ""
}

// PropagatedCopy copies the component for a new occurrence of the same name.
// Tokens, offsets and bounding boxes belong to the original occurrence and
// are left out.
func (c Component) PropagatedCopy() Component {
	c.Tokens = nil
	c.Offsets = text.OffsetPosition{}
	c.BoundingBoxes = nil
	return c
}

// Equal compares components by span only.
func (c Component) Equal(o Component) bool {
	return c.Offsets == o.Offsets
}

// Compare orders components by start then end offset.
func (c Component) Compare(o Component) int {
	switch {
	case c.Offsets.Start < o.Offsets.Start:
		return -1
	case c.Offsets.Start > o.Offsets.Start:
		return 1
	case c.Offsets.End < o.Offsets.End:
		return -1
	case c.Offsets.End > o.Offsets.End:
		return 1
	}
	return 0
}

// SoftwareType is a span produced by the software type model.
type SoftwareType struct {
	Label   TypeLabel
	RawForm string
	Offsets text.OffsetPosition
	Tokens  []text.Token
}

// BiblioComponent is a bibliographic reference callout and the record it resolves to.
type BiblioComponent struct {
	RefKey        int
	RawForm       string
	Offsets       text.OffsetPosition
	BoundingBoxes []BoundingBox
	// TEI encoding of the referenced bibliographic record
	Record    string
	Knowledge KnowledgeAttributes
}

// ContextAttribute is a classifier decision with its score.
type ContextAttribute struct {
	Value bool
	Score float64
}

// SoftwareContextAttributes tell whether the context of a mention shows the
// software being used, created or shared. The zero value is the initial
// state: every decision false with score 0.
type SoftwareContextAttributes struct {
	Used    ContextAttribute
	Created ContextAttribute
	Shared  ContextAttribute
}

// Max keeps, per attribute, the decision with the higher score. A true
// decision always wins over a false one.
func (a SoftwareContextAttributes) Max(b SoftwareContextAttributes) SoftwareContextAttributes {
	return SoftwareContextAttributes{
		Used:    maxAttribute(a.Used, b.Used),
		Created: maxAttribute(a.Created, b.Created),
		Shared:  maxAttribute(a.Shared, b.Shared),
	}
}

func maxAttribute(a, b ContextAttribute) ContextAttribute {
	if a.Value != b.Value {
		if a.Value {
			return a
		}
		return b
	}
	if b.Score > a.Score {
		return b
	}
	return a
}
