package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache/remote"
)

type fakeClient struct {
	stored  map[string][]byte
	flushes int
	fail    error
}

func (f *fakeClient) NewGetPipeline(int) remote.GetPipeline { return nil }

func (f *fakeClient) NewSetPipeline(int) remote.SetPipeline {
	return &fakeSetPipeline{client: f, pending: map[string][]byte{}}
}

func (f *fakeClient) Ready() bool { return true }

type fakeSetPipeline struct {
	client  *fakeClient
	pending map[string][]byte
	size    int
}

func (p *fakeSetPipeline) Set(key string, data []byte) {
	p.pending[key] = data
	p.size++
}

func (p *fakeSetPipeline) ExecSet() error {
	if p.client.fail != nil {
		return p.client.fail
	}
	for k, v := range p.pending {
		p.client.stored[k] = v
	}
	p.client.flushes++
	return nil
}

func (p *fakeSetPipeline) Size() int { return p.size }

const knowledgeBase = `{"wikidataId":"Q5583458","names":["GROBID","Grobid"],"P31":["Q7397"]}
{"wikidataId":"Q216330","names":["SPSS","SPSS Statistics"]}
{"wikidataId":"Q206904","names":["R"]}
`

type ImporterSuite struct {
	suite.Suite
	client *fakeClient
}

func (s *ImporterSuite) SetupTest() {
	s.client = &fakeClient{stored: map[string][]byte{}}
}

func (s *ImporterSuite) TestUploadByName() {
	imp := importer{client: s.client, keyed: keyedBy(redisBackend), pipelineSize: 1}
	records, keys, err := imp.upload(strings.NewReader(knowledgeBase), cache.JSONLFormat)
	s.Require().NoError(err)

	s.Equal(3, records)
	s.Equal(4, keys, "names differing only in case share a key")
	s.Len(s.client.stored, 4)
	s.Equal(2, s.client.flushes, "a pipeline is flushed once it holds more than the pipeline size")

	var lookup cache.Lookup
	s.Require().NoError(json.Unmarshal(s.client.stored["spss statistics"], &lookup))
	s.Equal("Q216330", lookup.WikidataID)
}

func (s *ImporterSuite) TestUploadByID() {
	imp := importer{client: s.client, keyed: keyedBy(elasticsearchBackend), pipelineSize: 100}
	records, keys, err := imp.upload(strings.NewReader(knowledgeBase), cache.JSONLFormat)
	s.Require().NoError(err)

	s.Equal(3, records)
	s.Equal(3, keys)
	s.Contains(s.client.stored, "Q5583458")
	s.Equal(1, s.client.flushes)
}

func (s *ImporterSuite) TestUploadFailure() {
	s.client.fail = errors.New("backend down")
	imp := importer{client: s.client, keyed: byName, pipelineSize: 100}
	_, _, err := imp.upload(strings.NewReader(knowledgeBase), cache.JSONLFormat)
	s.Equal(s.client.fail, err)
}

func TestImporterSuite(t *testing.T) {
	suite.Run(t, new(ImporterSuite))
}

func TestByID(t *testing.T) {
	assert.Equal(t, []string{"Q1"}, byID(&cache.Lookup{WikidataID: "Q1", Names: []string{"A"}}))
	assert.Equal(t, []string{"a"}, byID(&cache.Lookup{Names: []string{"A", "B"}}))
}

func TestUploadUnsupportedFormat(t *testing.T) {
	imp := importer{client: &fakeClient{stored: map[string][]byte{}}, keyed: byName, pipelineSize: 1}
	_, _, err := imp.upload(strings.NewReader(knowledgeBase), "xml")
	require.Error(t, err)
}
