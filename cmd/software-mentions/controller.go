package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/assemble"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/features"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/knowledge"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/normalize"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/serialize"
	snippet_reader "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader/html"
	plain "gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/snippet-reader/text"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
)

type contentType int

const (
	contentTypePlain contentType = iota
	contentTypeHTML
	contentTypeJSON
)

var allowedContentTypeEnumMap = map[string]contentType{
	"text/plain":       contentTypePlain,
	"text/html":        contentTypeHTML,
	"application/xml":  contentTypeHTML,
	"text/xml":         contentTypeHTML,
	"application/json": contentTypeJSON,
}

type controller struct {
	lexicon    *lexicon.Lexicon
	normalizer normalize.Normalizer
	assembler  *assemble.Assembler
	// nil without a knowledge base
	linker *knowledge.Linker
	// nil when responses are not cached
	responses *gocache.Cache
	ready     func() bool
	metrics   *metrics
}

type labeledTokensRequest struct {
	Tokens []text.LabeledToken `json:"tokens"`
}

// Annotate computes the lexical features of a document: vocabulary names and
// URLs. Plain text and HTML are read paragraph by paragraph. A JSON body holds
// tokens already cut by the tagger, which are annotated as one snippet.
func (c controller) Annotate(r io.Reader, ct contentType) ([]features.Snippet, error) {
	if ct == contentTypeJSON {
		var req labeledTokensRequest
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return nil, NewHttpError(400, fmt.Errorf("invalid json: %w", err))
		}
		return []features.Snippet{features.Labeled(c.lexicon, req.Tokens)}, nil
	}

	var reader snippet_reader.Client = plain.SnippetReader{}
	if ct == contentTypeHTML {
		reader = html.SnippetReader{}
	}

	snippets := []features.Snippet{}
	err := features.Read(c.lexicon, reader, r, func(snippet features.Snippet) error {
		snippets = append(snippets, snippet)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snippets, nil
}

type referenceSpan struct {
	RefKey      int    `json:"refKey"`
	Label       string `json:"label"`
	TEI         string `json:"tei"`
	OffsetStart int    `json:"offsetStart"`
	OffsetEnd   int    `json:"offsetEnd"`
}

type typeSpan struct {
	Label       string `json:"label"`
	OffsetStart int    `json:"offsetStart"`
	OffsetEnd   int    `json:"offsetEnd"`
}

// entitiesRequest carries a text, the tagger label of each of its tokens (as
// cut by text.Tokenize) and the spans found by the other models.
type entitiesRequest struct {
	Text       string          `json:"text"`
	Labels     []string        `json:"labels"`
	References []referenceSpan `json:"references"`
	Types      []typeSpan      `json:"types"`
	// attach callouts by distance to the assembled entities rather than in document order
	RefWindow    bool `json:"refWindow"`
	Propagate    bool `json:"propagate"`
	Context      bool `json:"context"`
	Paragraphs   bool `json:"paragraphs"`
	WithFiltered bool `json:"withFiltered"`
}

func checkSpan(what string, i, start, end, length int) error {
	if start < 0 || end < start || end > length {
		return NewHttpError(400, fmt.Errorf("%s %d: invalid span [%d, %d)", what, i, start, end))
	}
	return nil
}

func spanTokens(tokens []text.Token, span text.OffsetPosition) []text.Token {
	var within []text.Token
	for _, t := range tokens {
		if t.Offset >= span.Start && t.End() <= span.End {
			within = append(within, t)
		}
	}
	return within
}

func (req entitiesRequest) spans(tokens []text.Token) ([]model.BiblioComponent, []model.SoftwareType, error) {
	refs := make([]model.BiblioComponent, len(req.References))
	for i, r := range req.References {
		if err := checkSpan("reference", i, r.OffsetStart, r.OffsetEnd, len(req.Text)); err != nil {
			return nil, nil, err
		}
		refs[i] = model.BiblioComponent{
			RefKey:    r.RefKey,
			RawForm:   r.Label,
			Offsets:   text.OffsetPosition{Start: r.OffsetStart, End: r.OffsetEnd},
			Record:    r.TEI,
			Knowledge: model.NoKnowledge,
		}
		if refs[i].RawForm == "" {
			refs[i].RawForm = req.Text[r.OffsetStart:r.OffsetEnd]
		}
	}

	types := make([]model.SoftwareType, 0, len(req.Types))
	for i, t := range req.Types {
		if err := checkSpan("type", i, t.OffsetStart, t.OffsetEnd, len(req.Text)); err != nil {
			return nil, nil, err
		}
		label, err := model.ParseTypeLabel(t.Label)
		if err != nil {
			return nil, nil, NewHttpError(400, err)
		}
		span := text.OffsetPosition{Start: t.OffsetStart, End: t.OffsetEnd}
		types = append(types, model.SoftwareType{
			Label:   label,
			RawForm: req.Text[t.OffsetStart:t.OffsetEnd],
			Offsets: span,
			Tokens:  spanTokens(tokens, span),
		})
	}
	return refs, types, nil
}

func cacheKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Entities assembles the software entities of a labelled text and returns
// their JSON projection. Identical requests are answered from the response
// cache while it holds them.
func (c controller) Entities(ctx context.Context, body []byte) ([]byte, error) {
	key := cacheKey(body)
	if c.responses != nil {
		if cached, ok := c.responses.Get(key); ok {
			c.metrics.cache.WithLabelValues("hit").Inc()
			return cached.([]byte), nil
		}
		c.metrics.cache.WithLabelValues("miss").Inc()
	}

	var req entitiesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, NewHttpError(400, fmt.Errorf("invalid json: %w", err))
	}

	entities, err := c.entities(ctx, req)
	if err != nil {
		return nil, err
	}

	for _, e := range entities {
		if !e.Empty() && (!e.Filtered || req.WithFiltered) {
			c.metrics.entities.WithLabelValues(e.Type.String()).Inc()
		}
	}

	data, err := serialize.Marshal(entities, req.WithFiltered)
	if err != nil {
		return nil, err
	}
	if c.responses != nil {
		c.responses.SetDefault(key, data)
	}
	return data, nil
}

func (c controller) entities(ctx context.Context, req entitiesRequest) ([]model.Entity, error) {
	tokens := text.Tokenize(req.Text, 0)
	if len(req.Labels) != len(tokens) {
		return nil, NewHttpError(400, fmt.Errorf("expected %d labels, one per token, got %d", len(tokens), len(req.Labels)))
	}
	tags, err := assemble.ParseTags(req.Labels)
	if err != nil {
		return nil, NewHttpError(400, err)
	}
	refs, types, err := req.spans(tokens)
	if err != nil {
		return nil, err
	}

	components := assemble.ExtractComponents(tokens, tags, c.lexicon)

	var entities []model.Entity
	if req.RefWindow {
		entities = c.assembler.Assemble(components, nil)
		entities = assemble.AttachRefBib(entities, refs, assemble.DefaultIntervalMax)
	} else {
		entities = c.assembler.Assemble(components, refs)
	}
	entities = assemble.FilterByRefCallout(entities, refs)
	entities = assemble.RefineTypes(entities, types, c.lexicon)

	if req.Propagate {
		entities = assemble.Propagate(tokens, entities, c.lexicon)
		entities = assemble.MergeByName(entities)
	}

	if c.linker != nil {
		if entities, err = c.linker.Link(ctx, entities); err != nil {
			return nil, err
		}
	}

	if req.Context || req.Paragraphs {
		err := plain.SnippetReader{}.ReadSnippetsWithCallback(strings.NewReader(req.Text), func(p *snippet_reader.Snippet) error {
			entities = assemble.AddContext(entities, p.Text, p.Offset, req.Paragraphs)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return entities, nil
}

var errUnknownField = errors.New("field must be one of software, version, creator or url")

// Normalize applies the normalization of a component field to value.
func (c controller) Normalize(field, value string) (string, error) {
	label, _, err := model.ParseLabel(field)
	if err != nil || label == model.Other {
		return "", NewHttpError(400, errUnknownField)
	}
	return c.normalizer.Normalize(label, value), nil
}

func (c controller) IDF(term string) float64 {
	return c.lexicon.TermIDF(term)
}

func (c controller) LexiconStats() map[string]interface{} {
	return c.lexicon.Stats()
}

func (c controller) Ready() bool {
	return c.ready == nil || c.ready()
}
