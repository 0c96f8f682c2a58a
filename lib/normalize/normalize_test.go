package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

func TestNormalizeVersionNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"version 1.1", "1.1"},
		{"Version 5.0    ", "5.0"},
		{"1.31 version", "1.31"},
		{"v.9.3", "9.3"},
		{"v0.9.6", "0.9.6"},
		{"ver.12.0", "12.0"},
		{"ver.13 ", "13"},
		{"release  1.31", "1.31"},
		{"(ver-sion 2.3)", "2.3"},
		{"build\n2021", "2021"},
		{"4.0.1.", "4.0.1"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeVersionNumber(tt.in), tt.in)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(code available at http:// goddardlab.auckland.ac.nz/data-and-code/)", "http://goddardlab.auckland.ac.nz/data-and-code/"},
		{"(http://www.superarray.com/ pcr/arrayanalysis.php),", "http://www.superarray.com/pcr/arrayanalysis.php"},
		{"http:// biomoby.open-bio.org/CVS_CONTENT/moby-live/Java/docs/ Moses-generators.html", "http://biomoby.open-bio.org/CVS_CONTENT/moby-live/Java/docs/Moses-generators.html"},
		{"random.org", "random.org"},
		{"“https://github.com/kermitt2/grobid”", "https://github.com/kermitt2/grobid"},
		{"http://grobid.org [ftp://mirror.grobid.org]", "http://grobid.org"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.in), tt.in)
	}
}

func TestNormalizeCreator(t *testing.T) {
	n := New([]string{"Chicago IL, USA", "Santa Barbara, CA, USA"})

	tests := []struct {
		in   string
		want string
	}{
		{"SPSS Inc., Chicago IL, USA", "SPSS Inc."},
		{"(Bruker Corporation, Santa Barbara, CA, USA)", "Bruker Corporation"},
		{"IBM Corporation", "IBM Corporation"},
		{"STATA Corp LP. Package", "STATA Corp"},
		{"Acme Software, Chicago IL, USA", "Acme Software"},
		{"Vincent Labs", "Vincent Labs"},
		{"Microsoft\n Research", "Microsoft Research"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, n.NormalizeCreator(tt.in), tt.in)
	}
}

func TestNormalizeSoftwareName(t *testing.T) {
	assert.Equal(t, "GROBID", NormalizeSoftwareName(" (GROBID), "))
	assert.Equal(t, "Image J", NormalizeSoftwareName("Image\nJ"))
	assert.Equal(t, "", NormalizeSoftwareName("();"))
}

func TestNormalizeDispatch(t *testing.T) {
	n := New(nil)
	assert.Equal(t, "0.5.4", n.Normalize(model.Version, "version 0.5.4"))
	assert.Equal(t, "SPSS Inc.", n.Normalize(model.Creator, "SPSS Inc., Chicago"))
	assert.Equal(t, "http://a.org/x", n.Normalize(model.SoftwareURL, "(http://a.org/ x)"))
	assert.Equal(t, "GROBID", n.Normalize(model.Software, "GROBID,"))
	assert.Equal(t, "as is", n.Normalize(model.Other, " as \n is "))

	c := n.Component(model.NewComponent(model.Version, "v2.1", text.OffsetPosition{Start: 0, End: 4}))
	assert.Equal(t, "2.1", c.NormalizedForm)
	assert.Equal(t, "v2.1", c.RawForm)
}
