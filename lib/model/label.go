package model

import (
	"fmt"
	"strings"
)

// Label is the tag the sequence labeller assigns to a software component.
type Label int

const (
	Software Label = iota
	Version
	Creator
	SoftwareURL
	Other
)

var labelNames = [...]string{
	Software:    "software",
	Version:     "version",
	Creator:     "creator",
	SoftwareURL: "url",
	Other:       "other",
}

func (l Label) String() string {
	if l < Software || l > Other {
		return fmt.Sprintf("label(%d)", int(l))
	}
	return labelNames[l]
}

// ParseLabel reads a tagger label. It accepts the bare name ("software"),
// the bracketed form ("<software>"), upper case names ("SOFTWARE_URL") and
// the I-/B- prefixes that mark the first token of a chunk. begin reports
// whether such a prefix was present.
func ParseLabel(s string) (label Label, begin bool, err error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "I-") || strings.HasPrefix(s, "B-") {
		begin = true
		s = s[2:]
	}
	s = strings.ToLower(strings.Trim(s, "<>"))

	switch s {
	case "software":
		return Software, begin, nil
	case "version", "version_number":
		return Version, begin, nil
	case "creator", "publisher":
		return Creator, begin, nil
	case "url", "software_url":
		return SoftwareURL, begin, nil
	case "other", "o", "":
		return Other, begin, nil
	}
	return Other, begin, fmt.Errorf("unknown label %q", s)
}

// TypeLabel is the tag assigned by the secondary software type model.
type TypeLabel int

const (
	TypeEnvironment TypeLabel = iota
	TypeLanguage
	TypeComponent
	TypeImplicit
	TypeOther
)

func (t TypeLabel) String() string {
	switch t {
	case TypeEnvironment:
		return "environment"
	case TypeLanguage:
		return "language"
	case TypeComponent:
		return "component"
	case TypeImplicit:
		return "implicit"
	case TypeOther:
		return "other"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseTypeLabel reads a software type label, with or without brackets.
func ParseTypeLabel(s string) (TypeLabel, error) {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(s), "<>")) {
	case "environment":
		return TypeEnvironment, nil
	case "language":
		return TypeLanguage, nil
	case "component":
		return TypeComponent, nil
	case "implicit":
		return TypeImplicit, nil
	case "other", "":
		return TypeOther, nil
	}
	return TypeOther, fmt.Errorf("unknown software type %q", s)
}

// EntityType classifies a software entity.
type EntityType int

const (
	EntitySoftware EntityType = iota
	EntityEnvironment
	EntityLanguage
	EntityComponent
	EntityImplicit
)

func (e EntityType) String() string {
	switch e {
	case EntitySoftware:
		return "software"
	case EntityEnvironment:
		return "environment"
	case EntityLanguage:
		return "language"
	case EntityComponent:
		return "component"
	case EntityImplicit:
		return "implicit"
	}
	return fmt.Sprintf("entity(%d)", int(e))
}

// EntityType returns the entity type a software type span assigns. ok is
// false for TypeOther, which assigns nothing.
func (t TypeLabel) EntityType() (e EntityType, ok bool) {
	switch t {
	case TypeEnvironment:
		return EntityEnvironment, true
	case TypeLanguage:
		return EntityLanguage, true
	case TypeComponent:
		return EntityComponent, true
	case TypeImplicit:
		return EntityImplicit, true
	case TypeOther:
		return EntitySoftware, false
	}
	return EntitySoftware, false
}

// Origin tells whether a component was produced automatically or supplied by a curator.
type Origin int

const (
	OriginSystem Origin = iota
	OriginUser
)

func (o Origin) String() string {
	if o == OriginUser {
		return "user"
	}
	return "grobid"
}
