// Package normalize canonicalizes the surface form of software component
// fields. Every function is total: malformed input comes back cleaned but
// otherwise unchanged.
package normalize

import (
	"regexp"
	"strings"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

const (
	versionBoundary = "()[]"
	fieldBoundary   = "()[],;.’“\""
)

var (
	versionPrefix = regexp.MustCompile(`(?i)^(ver(-)?sion(s)?|ver|v|release(s)?|build)\s?\.?\s?`)
	versionSuffix = regexp.MustCompile(`(?i)(version(s)?|ver|release(s)?)$`)
	companySuffix = regexp.MustCompile(`(?i)\b(incorporated|inc|corporation|corp|ltd)\b\s?\.?`)
	spaces        = regexp.MustCompile(` +`)
)

// NormalizeVersionNumber drops the "version" keyword and its variants around a version number.
func NormalizeVersionNumber(version string) string {
	version = text.CollapseSpaces(version)
	version = strings.Trim(version, versionBoundary)
	version = versionPrefix.ReplaceAllString(version, "")
	version = versionSuffix.ReplaceAllString(version, "")
	version = strings.Trim(version, ".")
	return text.CollapseSpaces(version)
}

// NormalizeURL extracts the URL from the field and removes the whitespace inside it.
// When the field holds several URLs the first one is kept.
func NormalizeURL(url string) string {
	url = text.CollapseSpaces(url)
	url = strings.Trim(url, fieldBoundary)

	if loc := text.URLPattern.FindStringIndex(url); loc != nil {
		url = spaces.ReplaceAllString(url[loc[0]:loc[1]], "")
	}
	return url
}

// NormalizeSoftwareName only cleans the boundaries of the name.
func NormalizeSoftwareName(name string) string {
	name = text.CollapseSpaces(name)
	name = strings.Trim(name, fieldBoundary)
	return strings.TrimSpace(name)
}

// Normalizer carries the address gazetteer needed for creator names.
type Normalizer struct {
	addresses []string
}

func New(addresses []string) Normalizer {
	return Normalizer{addresses: addresses}
}

// NormalizeCreator cuts the creator after its first legal suffix (Inc.,
// Corp, Ltd...) and drops a trailing address from the gazetteer.
func (n Normalizer) NormalizeCreator(creator string) string {
	creator = text.CollapseSpaces(creator)
	creator = strings.Trim(creator, fieldBoundary)

	if loc := companySuffix.FindStringIndex(creator); loc != nil {
		creator = creator[:loc[1]]
	}

	for _, address := range n.addresses {
		if address != "" && strings.HasSuffix(creator, address) {
			creator = strings.TrimRight(strings.TrimSuffix(creator, address), " ,;")
		}
	}

	return strings.TrimSpace(creator)
}

// Normalize dispatches on the component label. Other is returned cleaned only.
func (n Normalizer) Normalize(label model.Label, raw string) string {
	switch label {
	case model.Software:
		return NormalizeSoftwareName(raw)
	case model.Version:
		return NormalizeVersionNumber(raw)
	case model.Creator:
		return n.NormalizeCreator(raw)
	case model.SoftwareURL:
		return NormalizeURL(raw)
	case model.Other:
		return text.CollapseSpaces(raw)
	}
	return text.CollapseSpaces(raw)
}

// Component returns c with its normalized form computed from its raw form.
func (n Normalizer) Component(c model.Component) model.Component {
	return c.WithNormalizedForm(n.Normalize(c.Label, c.RawForm))
}
