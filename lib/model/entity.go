package model

// NoContextOffset marks an entity without context.
const NoContextOffset = -1

// Entity groups a software name with at most one version, creator and URL
// and any number of bibliographic references. The name is the anchor: an
// entity without one is empty and never rendered.
//
// Entities are values like components. Slots hold pointers to components
// that are never modified once attached; With methods and Merge allocate.
type Entity struct {
	Type         EntityType
	SoftwareName *Component
	Version      *Component
	Creator      *Component
	URL          *Component
	Language     *Component
	References   []BiblioComponent

	// EntityID is the knowledge base key once disambiguated.
	EntityID   string
	Filtered   bool
	Propagated bool

	Context       string
	ContextOffset int
	Paragraph     string

	MentionContext  *SoftwareContextAttributes
	DocumentContext *SoftwareContextAttributes
}

// NewEntity opens an entity anchored on name.
func NewEntity(name Component) Entity {
	return Entity{
		Type:          EntitySoftware,
		SoftwareName:  &name,
		ContextOffset: NoContextOffset,
	}
}

// Empty reports whether the entity has no name.
func (e Entity) Empty() bool {
	return e.SoftwareName == nil
}

// Field returns the slot for label, nil when empty or when the label has no slot.
func (e Entity) Field(label Label) *Component {
	switch label {
	case Software:
		return e.SoftwareName
	case Version:
		return e.Version
	case Creator:
		return e.Creator
	case SoftwareURL:
		return e.URL
	case Other:
		return nil
	}
	return nil
}

// FreeField reports whether a component labelled label may be attached
// without replacing anything. Other never has a slot.
func (e Entity) FreeField(label Label) bool {
	switch label {
	case Software, Version, Creator, SoftwareURL:
		return e.Field(label) == nil
	case Other:
		return false
	}
	return false
}

// WithField returns a copy of e with c in the slot of its label. Components
// labelled Other are ignored.
func (e Entity) WithField(c Component) Entity {
	switch c.Label {
	case Software:
		e.SoftwareName = &c
	case Version:
		e.Version = &c
	case Creator:
		e.Creator = &c
	case SoftwareURL:
		e.URL = &c
	case Other:
	}
	return e
}

// WithoutField returns a copy of e with the slot of label emptied. The name cannot be removed.
func (e Entity) WithoutField(label Label) Entity {
	switch label {
	case Version:
		e.Version = nil
	case Creator:
		e.Creator = nil
	case SoftwareURL:
		e.URL = nil
	case Software, Other:
	}
	return e
}

func (e Entity) WithLanguage(c Component) Entity {
	e.Language = &c
	return e
}

func (e Entity) WithType(t EntityType) Entity {
	e.Type = t
	return e
}

// WithReference appends a reference without sharing the backing array of e.References.
func (e Entity) WithReference(ref BiblioComponent) Entity {
	refs := make([]BiblioComponent, len(e.References), len(e.References)+1)
	copy(refs, e.References)
	e.References = append(refs, ref)
	return e
}

// WithContext sets the context snippet and its document offset.
func (e Entity) WithContext(context string, offset int) Entity {
	e.Context = context
	e.ContextOffset = offset
	return e
}

func (e Entity) WithParagraph(paragraph string) Entity {
	e.Paragraph = paragraph
	return e
}

// HasContext reports whether a context snippet is attached.
func (e Entity) HasContext() bool {
	return e.Context != "" && e.ContextOffset != NoContextOffset
}

// distanceToName is the signed gap between c and the end of the name:
// positive when c follows the name, negative when it ends before the name ends.
func (e Entity) distanceToName(c Component) int {
	nameEnd := e.SoftwareName.Offsets.End
	if c.Offsets.Start >= nameEnd {
		return c.Offsets.Start - nameEnd
	}
	return c.Offsets.End - nameEnd
}

// BetterField reports whether version candidate c should replace the version
// already held. A version after the name beats one before it, the closer of
// two following versions wins, and between two preceding versions the
// candidate always wins. Both versions need a normalized form, otherwise the
// incumbent is kept. Labels other than Version never replace anything.
func (e Entity) BetterField(c Component) bool {
	if c.Label != Version || e.Version == nil || e.SoftwareName == nil {
		return false
	}
	if !c.HasNormalizedForm() || !e.Version.HasNormalizedForm() {
		return false
	}

	current := e.distanceToName(*e.Version)
	candidate := e.distanceToName(c)
	switch {
	case current < 0 && candidate > 0:
		return true
	case current > 0 && candidate > 0:
		return candidate < current
	case current < 0 && candidate < 0:
		return true
	}
	return false
}

// Equal compares entities by the span of their names.
func (e Entity) Equal(o Entity) bool {
	if e.SoftwareName == nil || o.SoftwareName == nil {
		return e.SoftwareName == nil && o.SoftwareName == nil
	}
	return e.SoftwareName.Equal(*o.SoftwareName)
}

// Compare orders entities by name span. Empty entities sort first.
func (e Entity) Compare(o Entity) int {
	switch {
	case e.SoftwareName == nil && o.SoftwareName == nil:
		return 0
	case e.SoftwareName == nil:
		return -1
	case o.SoftwareName == nil:
		return 1
	}
	return e.SoftwareName.Compare(*o.SoftwareName)
}

// NormalizedName returns the normalized name, or the raw one when not normalized.
func (e Entity) NormalizedName() string {
	if e.SoftwareName == nil {
		return ""
	}
	if e.SoftwareName.HasNormalizedForm() {
		return e.SoftwareName.NormalizedForm
	}
	return e.SoftwareName.RawForm
}
