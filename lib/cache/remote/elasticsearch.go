package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/elastic/go-elasticsearch/v7"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
)

type ElasticsearchConfig struct {
	Host  string
	Port  int
	Index string
}

type esResponse struct {
	Took      int `json:"took"`
	Responses []struct {
		Took     int  `json:"took"`
		TimedOut bool `json:"timed_out"`
		Hits     struct {
			Total struct {
				Value    int    `json:"value"`
				Relation string `json:"relation"`
			} `json:"total"`
			MaxScore float64 `json:"max_score"`
			Hits     []struct {
				Index  string       `json:"_index"`
				ID     string       `json:"_id"`
				Score  float64      `json:"_score"`
				Source cache.Lookup `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
		Status int `json:"status"`
	} `json:"responses"`
}

func NewElasticsearchClient(conf ElasticsearchConfig) (Client, error) {
	c, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s:%d", conf.Host, conf.Port)},
	})
	if err != nil {
		return nil, err
	}
	return &esClient{
		Client: c,
		index:  conf.Index,
	}, nil
}

type esClient struct {
	*elasticsearch.Client
	index string
}

func (e *esClient) Ready() bool {
	res, err := e.Info()
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == 200
}

func (e *esClient) NewGetPipeline(size int) GetPipeline {
	return &esPipeline{
		esClient:     e,
		buf:          bytes.NewBuffer(nil),
		currentQuery: make([]string, 0, size),
	}
}

func (e *esClient) NewSetPipeline(size int) SetPipeline {
	return &esPipeline{
		esClient:     e,
		buf:          bytes.NewBuffer(nil),
		currentQuery: make([]string, 0, size),
	}
}

type esPipeline struct {
	*esClient
	buf          *bytes.Buffer
	currentQuery []string
}

// Set indexes data with the key as document id, so importing twice replaces documents.
func (p *esPipeline) Set(key string, data []byte) {
	p.buf.WriteString(fmt.Sprintf(`{"index":{"_id":"%s"}}%s`, jsonEscape(cache.Key(key)), "\n"))
	p.buf.WriteString(fmt.Sprintf("%s%s", string(data), "\n"))
	p.currentQuery = append(p.currentQuery, key)
}

func (p *esPipeline) ExecSet() error {
	if len(p.currentQuery) == 0 {
		return nil
	}
	res, err := p.Bulk(p.buf, p.Bulk.WithIndex(p.index))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		return errors.New(res.String())
	}
	return nil
}

// esCandidates is the number of phrase matches fetched per name. names is
// analyzed, so a record only counts when one of its keys is the key looked up.
const esCandidates = 10

func (p *esPipeline) Get(key string) {
	p.buf.WriteString(fmt.Sprintf(`{}%s`, "\n"))
	p.buf.WriteString(fmt.Sprintf(`{"size": %d, "query" : {"match_phrase" : { "names": "%s" }}}%s`, esCandidates, jsonEscape(cache.Key(key)), "\n"))
	p.currentQuery = append(p.currentQuery, key)
}

func jsonEscape(i string) string {
	b, err := json.Marshal(i)
	if err != nil {
		panic(err)
	}
	s := string(b)
	return s[1 : len(s)-1]
}

func (p *esPipeline) ExecGet(onResult func(string, *cache.Lookup) error) error {
	if len(p.currentQuery) == 0 {
		return nil
	}
	res, err := p.Msearch(p.buf, p.Msearch.WithIndex(p.index))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		return errors.New(res.String())
	}

	b, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return err
	}
	var esresponse esResponse
	if err := json.Unmarshal(b, &esresponse); err != nil {
		return err
	}
	if len(esresponse.Responses) != len(p.currentQuery) {
		return fmt.Errorf("expected %d responses, got %d", len(p.currentQuery), len(esresponse.Responses))
	}

	for i, response := range esresponse.Responses {
		key := cache.Key(p.currentQuery[i])
		var lookup *cache.Lookup
		for _, hit := range response.Hits.Hits {
			source := hit.Source
			if hasKey(&source, key) {
				lookup = &source
				break
			}
		}
		if err := onResult(p.currentQuery[i], lookup); err != nil {
			return err
		}
	}
	return nil
}

func hasKey(l *cache.Lookup, key string) bool {
	for _, k := range l.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func (p *esPipeline) Size() int {
	return len(p.currentQuery)
}
