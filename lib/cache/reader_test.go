package cache

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, format Format, input string) []*Lookup {
	var lookups []*Lookup
	err := ReadWithCallback(format, strings.NewReader(input), func(l *Lookup) error {
		lookups = append(lookups, l)
		return nil
	})
	require.NoError(t, err)
	return lookups
}

func TestReadJSONL(t *testing.T) {
	input := `{"wikidataId":"Q5583458","wikipediaExternalRef":44107712,"names":["GROBID"],"P31":["Q7397"]}
not json
{"wikidataId":"Q0","names":[" "]}

{"wikidataId":"Q216330","names":["SPSS","SPSS Statistics"],"categories":["Statistical software"]}
`
	lookups := readAll(t, JSONLFormat, input)
	require.Len(t, lookups, 2, "invalid lines and records without name are skipped")
	assert.Equal(t, "Q5583458", lookups[0].WikidataID)
	assert.Equal(t, 44107712, lookups[0].WikipediaExternalRef)
	assert.Equal(t, []string{"spss", "spss statistics"}, lookups[1].Keys())
}

func TestReadTSV(t *testing.T) {
	input := "# id\tpage\tnames\tP31\tP279\tcategories\n" +
		"Q5583458\t44107712\tGROBID|grobid\tQ7397\t\tFree software\n" +
		"Q206904\t\tR\n" +
		"Q1\tnotanumber\tX\n" +
		"Q2\n"
	lookups := readAll(t, TSVFormat, input)
	require.Len(t, lookups, 2)

	assert.Equal(t, &Lookup{
		WikidataID:           "Q5583458",
		WikipediaExternalRef: 44107712,
		Names:                []string{"GROBID", "grobid"},
		P31:                  []string{"Q7397"},
		Categories:           []string{"Free software"},
	}, lookups[0])
	assert.Equal(t, []string{"grobid"}, lookups[0].Keys())
	assert.Equal(t, &Lookup{WikidataID: "Q206904", Names: []string{"R"}}, lookups[1])
}

func TestReadUnsupportedFormat(t *testing.T) {
	_, err := Read("csv", strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadWithCallbackError(t *testing.T) {
	stop := errors.New("stop")
	err := ReadWithCallback(TSVFormat, strings.NewReader("Q1\t\tA\nQ2\t\tB\n"), func(*Lookup) error {
		return stop
	})
	assert.Equal(t, stop, err)
}
