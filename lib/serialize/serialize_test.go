package serialize_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/serialize"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

func span(start, end int) text.OffsetPosition {
	return text.OffsetPosition{Start: start, End: end}
}

func grobid() model.Entity {
	name := model.NewComponent(model.Software, "GRO\nBID", span(8, 15)).
		WithNormalizedForm("GROBID").
		WithKnowledge(model.KnowledgeAttributes{KnowledgeID: "Q1", PageRef: 42, Score: 0.87654}).
		WithLang("en")
	e := model.NewEntity(name).
		WithField(model.NewComponent(model.Version, "version 0.5.4", span(16, 29)).WithNormalizedForm("0.5.4")).
		WithReference(model.BiblioComponent{RefKey: 3, RawForm: "[3]", Offsets: span(30, 33), Record: "<biblStruct/>"}).
		WithContext("We used GRO\nBID version 0.5.4 [3].", 0)
	e.EntityID = "Q1"
	e.MentionContext = &model.SoftwareContextAttributes{Used: model.ContextAttribute{Value: true, Score: 0.9}}
	return e
}

func TestNewEntity(t *testing.T) {
	out, ok := serialize.NewEntity(grobid())
	require.True(t, ok)

	assert.Equal(t, "software", out.Type)
	assert.Equal(t, "GRO BID", out.SoftwareName.RawForm, "newlines become spaces")
	assert.Equal(t, "GROBID", out.SoftwareName.NormalizedForm)
	assert.Equal(t, 8, out.SoftwareName.OffsetStart)
	assert.Equal(t, 15, out.SoftwareName.OffsetEnd)
	assert.Equal(t, "Q1", out.WikidataID)
	assert.Equal(t, 42, out.WikipediaExternalRef)
	assert.Equal(t, json.Number("0.8765"), out.Confidence)

	require.NotNil(t, out.Version)
	assert.Equal(t, "0.5.4", out.Version.NormalizedForm)
	assert.Nil(t, out.Publisher)
	assert.Nil(t, out.URL)

	require.NotNil(t, out.ContextOffset)
	assert.Equal(t, 0, *out.ContextOffset)
	assert.Equal(t, "We used GRO BID version 0.5.4 [3].", out.Context)

	require.Len(t, out.References, 1)
	assert.Equal(t, 3, out.References[0].RefKey)
	assert.Equal(t, "<biblStruct/>", out.References[0].TEI)
}

func TestMarshal(t *testing.T) {
	unlinked := model.NewEntity(model.NewComponent(model.Software, "SPSS", span(50, 54)))
	filtered := unlinked
	filtered.Filtered = true

	data, err := serialize.Marshal([]model.Entity{grobid(), {}, unlinked, filtered}, false)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2, "empty and filtered entities are left out")

	first := decoded[0]
	assert.Equal(t, "software", first["type"])
	assert.Equal(t, 0.8765, first["confidence"])
	assert.Contains(t, first, "software-name")
	assert.Contains(t, first, "version")
	assert.NotContains(t, first, "publisher")
	assert.Equal(t, map[string]interface{}{
		"used":    map[string]interface{}{"value": true, "score": 0.9},
		"created": map[string]interface{}{"value": false, "score": float64(0)},
		"shared":  map[string]interface{}{"value": false, "score": float64(0)},
	}, first["mentionContextAttributes"])

	second := decoded[1]
	assert.NotContains(t, second, "wikidataId")
	assert.NotContains(t, second, "confidence")
	assert.NotContains(t, second, "contextOffset")

	data, err = serialize.Marshal([]model.Entity{filtered}, true)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"filtered":true`)
}

func TestInvalidString(t *testing.T) {
	e := model.NewEntity(model.NewComponent(model.Software, "bad\xff", span(0, 4)))
	out, ok := serialize.NewEntity(e)
	require.True(t, ok)
	assert.Equal(t, serialize.InvalidStringMarker, out.SoftwareName.RawForm)

	_, err := json.Marshal(out)
	assert.NoError(t, err)
}
