package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	gocache "github.com/patrickmn/go-cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/assemble"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache/local"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/knowledge"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/normalize"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/testhelpers"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

var lex *lexicon.Lexicon

func TestServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lex = testhelpers.Lexicon(t)

	RegisterFailHandler(Fail)
	RunSpecs(t, "Server Suite")
}

const document = "We used GROBID version 0.5.4 [12] from Inria.\nThe SPSS tool was also used."

// labelsFor labels the tokens of the first occurrence of each raw string, in order.
func labelsFor(s string, spans ...[2]string) []string {
	tokens := text.Tokenize(s, 0)
	labels := make([]string, len(tokens))
	for i := range labels {
		labels[i] = "<other>"
	}
	from := 0
	for _, span := range spans {
		start := from + strings.Index(s[from:], span[0])
		end := start + len(span[0])
		for i, t := range tokens {
			if t.Offset >= start && t.End() <= end {
				labels[i] = span[1]
			}
		}
		from = end
	}
	return labels
}

func newController(linker *knowledge.Linker) controller {
	normalizer := normalize.New(lex.Addresses())
	return controller{
		lexicon:    lex,
		normalizer: normalizer,
		assembler:  assemble.New(normalizer),
		linker:     linker,
		responses:  gocache.New(gocache.NoExpiration, 0),
		metrics:    newMetrics(),
	}
}

func newRouter(c controller) *gin.Engine {
	router := gin.New()
	server{controller: c}.RegisterRoutes(router)
	return router
}

func do(router *gin.Engine, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func entitiesBody(extra map[string]interface{}) io.Reader {
	req := map[string]interface{}{
		"text": document,
		"labels": labelsFor(document,
			[2]string{"GROBID", "<software>"},
			[2]string{"version 0.5.4", "<version>"},
			[2]string{"Inria", "<creator>"},
			[2]string{"SPSS", "<software>"},
		),
		"references": []map[string]interface{}{
			{"refKey": 12, "offsetStart": strings.Index(document, "[12]"), "offsetEnd": strings.Index(document, "[12]") + 4},
		},
	}
	for k, v := range extra {
		req[k] = v
	}
	b, err := json.Marshal(req)
	Ω(err).Should(BeNil())
	return strings.NewReader(string(b))
}

func decodeEntities(rec *httptest.ResponseRecorder) []map[string]interface{} {
	var entities []map[string]interface{}
	Ω(json.Unmarshal(rec.Body.Bytes(), &entities)).Should(Succeed())
	return entities
}

var _ = Describe("Entities", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = newRouter(newController(nil))
	})

	It("assembles the entities of a labelled text", func() {
		rec := do(router, http.MethodPost, "/entities", "application/json", entitiesBody(map[string]interface{}{"context": true}))
		Ω(rec.Code).Should(Equal(http.StatusOK))
		Ω(rec.Header().Get("X-Request-Id")).ShouldNot(BeEmpty())

		entities := decodeEntities(rec)
		Ω(entities).Should(HaveLen(2))

		grobid := entities[0]
		Ω(grobid["type"]).Should(Equal("software"))
		Ω(grobid["software-name"]).Should(HaveKeyWithValue("rawForm", "GROBID"))
		Ω(grobid["software-name"]).Should(HaveKeyWithValue("offsetStart", BeNumerically("==", 8)))
		Ω(grobid["version"]).Should(HaveKeyWithValue("normalizedForm", "0.5.4"))
		Ω(grobid["publisher"]).Should(HaveKeyWithValue("rawForm", "Inria"))
		Ω(grobid["references"]).Should(HaveLen(1))
		Ω(grobid["context"]).Should(Equal("We used GROBID version 0.5.4 [12] from Inria."))

		spss := entities[1]
		Ω(spss["software-name"]).Should(HaveKeyWithValue("rawForm", "SPSS"))
		Ω(spss).ShouldNot(HaveKey("version"))
		Ω(spss["context"]).Should(Equal("The SPSS tool was also used."))
	})

	It("attaches callouts by distance when asked to", func() {
		rec := do(router, http.MethodPost, "/entities", "application/json", entitiesBody(map[string]interface{}{"refWindow": true}))
		Ω(rec.Code).Should(Equal(http.StatusOK))
		Ω(decodeEntities(rec)[0]["references"]).Should(HaveLen(1))
	})

	It("answers identical requests from the cache", func() {
		for i := 0; i < 2; i++ {
			rec := do(router, http.MethodPost, "/entities", "application/json", entitiesBody(nil))
			Ω(rec.Code).Should(Equal(http.StatusOK))
		}

		rec := do(router, http.MethodGet, "/metrics", "", nil)
		Ω(rec.Code).Should(Equal(http.StatusOK))
		Ω(rec.Body.String()).Should(ContainSubstring(`software_mentions_response_cache_total{result="hit"} 1`))
		Ω(rec.Body.String()).Should(ContainSubstring(`software_mentions_response_cache_total{result="miss"} 1`))
		Ω(rec.Body.String()).Should(ContainSubstring(`software_mentions_entities_total{type="software"} 2`))
	})

	It("rejects labels that do not match the tokens", func() {
		body := `{"text": "We used GROBID", "labels": ["<other>"]}`
		rec := do(router, http.MethodPost, "/entities", "application/json", strings.NewReader(body))
		Ω(rec.Code).Should(Equal(http.StatusBadRequest))
	})

	It("rejects unknown labels and spans outside the text", func() {
		body := `{"text": "GROBID", "labels": ["<bogus>"]}`
		Ω(do(router, http.MethodPost, "/entities", "application/json", strings.NewReader(body)).Code).Should(Equal(http.StatusBadRequest))

		body = `{"text": "GROBID", "labels": ["<software>"], "types": [{"label": "<language>", "offsetStart": 2, "offsetEnd": 40}]}`
		Ω(do(router, http.MethodPost, "/entities", "application/json", strings.NewReader(body)).Code).Should(Equal(http.StatusBadRequest))
	})

	It("rejects invalid bodies", func() {
		Ω(do(router, http.MethodPost, "/entities", "application/json", strings.NewReader("")).Code).Should(Equal(http.StatusBadRequest))
		Ω(do(router, http.MethodPost, "/entities", "application/json", strings.NewReader("{")).Code).Should(Equal(http.StatusBadRequest))
		Ω(do(router, http.MethodPost, "/entities", "text/plain", strings.NewReader("GROBID")).Code).Should(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("Entities with a knowledge base", func() {
	var router *gin.Engine

	BeforeEach(func() {
		store := local.New()
		local.Add(store, &cache.Lookup{WikidataID: "Q5583458", WikipediaExternalRef: 44107712, Names: []string{"GROBID"}, P31: []string{"Q7397"}})
		local.Add(store, &cache.Lookup{WikidataID: "Q1", Names: []string{"SPSS"}, P31: []string{"Q5"}})
		c := newController(nil)
		c.linker = knowledge.NewLinker(c.metrics.countLookups(knowledge.LocalStore{Client: store}), lex)
		router = newRouter(c)
	})

	It("links software and leaves out filtered entities", func() {
		entities := decodeEntities(do(router, http.MethodPost, "/entities", "application/json", entitiesBody(nil)))
		Ω(entities).Should(HaveLen(1))
		Ω(entities[0]["wikidataId"]).Should(Equal("Q5583458"))
		Ω(entities[0]["wikipediaExternalRef"]).Should(BeNumerically("==", 44107712))
		Ω(entities[0]["id"]).Should(Equal("Q5583458"))
	})

	It("counts knowledge base lookups", func() {
		Ω(do(router, http.MethodPost, "/entities", "application/json", entitiesBody(nil)).Code).Should(Equal(http.StatusOK))

		body := do(router, http.MethodGet, "/metrics", "", nil).Body.String()
		Ω(body).Should(ContainSubstring(`software_mentions_knowledge_base_lookups_total{result="found"} 2`))
		Ω(body).Should(ContainSubstring(`software_mentions_knowledge_base_lookups_total{result="missing"} 0`))
	})

	It("returns filtered entities on demand", func() {
		entities := decodeEntities(do(router, http.MethodPost, "/entities", "application/json", entitiesBody(map[string]interface{}{"withFiltered": true})))
		Ω(entities).Should(HaveLen(2))
		Ω(entities[1]["filtered"]).Should(Equal(true))
		Ω(entities[1]).ShouldNot(HaveKey("wikidataId"))
	})
})

type annotated struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Xpath  string `json:"xpath"`
	Tokens []struct {
		Text          string `json:"text"`
		Offset        int    `json:"offset"`
		Software      bool   `json:"software"`
		SoftwareToken bool   `json:"softwareToken"`
		URL           bool   `json:"url"`
	} `json:"tokens"`
}

func decodeAnnotated(rec *httptest.ResponseRecorder) []annotated {
	Ω(rec.Code).Should(Equal(http.StatusOK))
	var snippets []annotated
	Ω(json.Unmarshal(rec.Body.Bytes(), &snippets)).Should(Succeed())
	return snippets
}

var _ = Describe("Annotate", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = newRouter(newController(nil))
	})

	It("flags vocabulary names and URLs in plain text", func() {
		body := "Nothing here.\nWe used GROBID from https://github.com/kermitt2/grobid"
		snippets := decodeAnnotated(do(router, http.MethodPost, "/annotate", "text/plain", strings.NewReader(body)))
		Ω(snippets).Should(HaveLen(2))
		Ω(snippets[1].Offset).Should(Equal(14))

		url := strings.Index(body, "https")
		for _, t := range snippets[1].Tokens {
			Ω(t.Text).Should(Equal(body[t.Offset : t.Offset+len(t.Text)]))
			Ω(t.Software).Should(Equal(t.Text == "GROBID"))
			Ω(t.URL).Should(Equal(t.Offset >= url))
		}
	})

	It("reads paragraphs of html", func() {
		snippets := decodeAnnotated(do(router, http.MethodPost, "/annotate", "text/html", strings.NewReader("<p>SPSS <b>rocks</b></p>")))
		Ω(snippets).Should(HaveLen(1))
		Ω(snippets[0].Xpath).Should(Equal("/p"))
		Ω(snippets[0].Tokens[0].Text).Should(Equal("SPSS"))
		Ω(snippets[0].Tokens[0].Offset).Should(Equal(3))
		Ω(snippets[0].Tokens[0].Software).Should(BeTrue())
	})

	It("annotates tagger tokens", func() {
		body := `{"tokens": [{"text": "LibreOffice"}, {"text": " "}, {"text": "Draw"}, {"text": " "}, {"text": "now"}]}`
		snippets := decodeAnnotated(do(router, http.MethodPost, "/annotate", "application/json", strings.NewReader(body)))
		Ω(snippets).Should(HaveLen(1))
		Ω(snippets[0].Text).Should(Equal("LibreOffice Draw now"))

		tokens := snippets[0].Tokens
		Ω(tokens).Should(HaveLen(3))
		Ω(tokens[0].Software).Should(BeTrue())
		Ω(tokens[1].Software).Should(BeTrue())
		Ω(tokens[1].SoftwareToken).Should(BeTrue())
		Ω(tokens[2].Software).Should(BeFalse())
	})

	It("rejects empty bodies and unknown content types", func() {
		Ω(do(router, http.MethodPost, "/annotate", "text/plain", strings.NewReader("")).Code).Should(Equal(http.StatusBadRequest))
		Ω(do(router, http.MethodPost, "/annotate", "image/png", strings.NewReader("GROBID")).Code).Should(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("Lexicon and normalization", func() {
	var router *gin.Engine
	var c controller

	BeforeEach(func() {
		c = newController(nil)
		router = newRouter(c)
	})

	It("normalizes fields", func() {
		rec := do(router, http.MethodGet, "/normalize/version?value=v2.0", "", nil)
		Ω(rec.Code).Should(Equal(http.StatusOK))
		var res map[string]interface{}
		Ω(json.Unmarshal(rec.Body.Bytes(), &res)).Should(Succeed())
		Ω(res["normalized"]).Should(Equal("2.0"))

		Ω(do(router, http.MethodGet, "/normalize/bogus?value=x", "", nil).Code).Should(Equal(http.StatusBadRequest))
		Ω(do(router, http.MethodGet, "/normalize/other?value=x", "", nil).Code).Should(Equal(http.StatusBadRequest))
		Ω(do(router, http.MethodGet, "/normalize/url", "", nil).Code).Should(Equal(http.StatusBadRequest))
	})

	It("serves term idf and lexicon sizes", func() {
		rec := do(router, http.MethodGet, "/lexicon/idf/GROBID", "", nil)
		Ω(rec.Code).Should(Equal(http.StatusOK))
		var res map[string]interface{}
		Ω(json.Unmarshal(rec.Body.Bytes(), &res)).Should(Succeed())
		Ω(res["idf"]).Should(BeNumerically("~", 4.2))

		rec = do(router, http.MethodGet, "/lexicon", "", nil)
		Ω(rec.Code).Should(Equal(http.StatusOK))
		Ω(rec.Body.String()).Should(ContainSubstring(`"vocabulary":6`))
	})

	It("reports readiness", func() {
		Ω(do(router, http.MethodGet, "/ready", "", nil).Code).Should(Equal(http.StatusOK))

		c.ready = func() bool { return false }
		Ω(do(newRouter(c), http.MethodGet, "/ready", "", nil).Code).Should(Equal(http.StatusServiceUnavailable))
	})
})
