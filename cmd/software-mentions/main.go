package main

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/assemble"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache/local"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache/remote"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/knowledge"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/normalize"
)

type knowledgeBackend string

const (
	noKnowledgeBackend            knowledgeBackend = "none"
	localKnowledgeBackend         knowledgeBackend = "local"
	redisKnowledgeBackend         knowledgeBackend = "redis"
	elasticsearchKnowledgeBackend knowledgeBackend = "elasticsearch"
)

type knowledgeBaseConfig struct {
	Backend      knowledgeBackend
	Path         string
	Format       cache.Format
	PipelineSize int `mapstructure:"pipeline_size"`
}

// config structure
type softwareMentionsConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Server         struct {
		HttpPort int           `mapstructure:"http_port"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	}
	Lexicon       lexicon.Config
	KnowledgeBase knowledgeBaseConfig `mapstructure:"knowledge_base"`
	Redis         remote.RedisConfig
	Elasticsearch remote.ElasticsearchConfig
}

var config softwareMentionsConfig

func initConfig() {
	err := lib.InitializeConfig("./config/software-mentions.yml", map[string]interface{}{
		"log_level": "info",
		"server": map[string]interface{}{
			"http_port": 8080,
			"cache_ttl": "10m",
		},
		"lexicon": map[string]interface{}{
			"vocabulary":      "./resources/lexicon/softwareVoc.txt",
			"idf":             "./resources/lexicon/idf.label.en.txt.gz",
			"categories":      "./resources/lexicon/wikipedia.categories.txt",
			"property_values": []string{"./resources/lexicon/wikidata.P31.txt", "./resources/lexicon/wikidata.P279.txt"},
			"stopwords":       "./resources/lexicon/stopwords_en.txt",
			"languages":       "./resources/lexicon/programming_languages.csv",
			"blacklist":       "./resources/lexicon/blacklist_software_names.txt",
			"addresses":       "",
			"case_sensitive":  false,
		},
		"knowledge_base": map[string]interface{}{
			"backend":       noKnowledgeBackend,
			"path":          "./resources/kb/software.jsonl",
			"format":        cache.JSONLFormat,
			"pipeline_size": 1000,
		},
		"redis": map[string]interface{}{
			"host": "localhost",
			"port": 6379,
		},
		"elasticsearch": map[string]interface{}{
			"host":  "localhost",
			"port":  9200,
			"index": "software",
		},
	}, &config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

// alwaysReady is the readiness of a service that depends on nothing remote.
func alwaysReady() bool { return true }

// newLinker builds the knowledge base linker for the configured backend. It
// is nil when no backend is configured.
func newLinker(fs afero.Fs, vocabulary knowledge.Vocabulary, m *metrics) (*knowledge.Linker, func() bool, error) {
	kb := config.KnowledgeBase
	switch kb.Backend {
	case noKnowledgeBackend, "":
		return nil, alwaysReady, nil
	case localKnowledgeBackend:
		store := local.New()
		f, err := fs.Open(kb.Path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		err = cache.ReadWithCallback(kb.Format, f, func(lookup *cache.Lookup) error {
			local.Add(store, lookup)
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", kb.Path, err)
		}
		log.Info().Str("path", kb.Path).Int("keys", store.Len()).Msg("knowledge base loaded")
		return knowledge.NewLinker(m.countLookups(knowledge.LocalStore{Client: store}), vocabulary), alwaysReady, nil
	case redisKnowledgeBackend:
		client := remote.NewRedisClient(config.Redis)
		store := knowledge.RemoteStore{Client: client, PipelineSize: kb.PipelineSize}
		return knowledge.NewLinker(m.countLookups(store), vocabulary), client.Ready, nil
	case elasticsearchKnowledgeBackend:
		client, err := remote.NewElasticsearchClient(config.Elasticsearch)
		if err != nil {
			return nil, nil, err
		}
		store := knowledge.RemoteStore{Client: client, PipelineSize: kb.PipelineSize}
		return knowledge.NewLinker(m.countLookups(store), vocabulary), client.Ready, nil
	}
	return nil, nil, fmt.Errorf("invalid knowledge base backend %q", kb.Backend)
}

func main() {
	initConfig()

	fs := afero.NewOsFs()
	lex, err := lexicon.Shared(fs, config.Lexicon)
	if err != nil {
		log.Fatal().Err(err).Msg("loading lexical resources")
	}

	m := newMetrics()
	linker, ready, err := newLinker(fs, lex, m)
	if err != nil {
		log.Fatal().Err(err).Msg("knowledge base")
	}

	// a zero ttl disables the response cache
	var responses *gocache.Cache
	if ttl := config.Server.CacheTTL; ttl > 0 {
		responses = gocache.New(ttl, 2*ttl)
	}

	normalizer := normalize.New(lex.Addresses())
	c := controller{
		lexicon:    lex,
		normalizer: normalizer,
		assembler:  assemble.New(normalizer),
		linker:     linker,
		responses:  responses,
		ready:      ready,
		metrics:    m,
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery(), cors.Default())
	s := server{controller: c}
	s.RegisterRoutes(r)

	go lib.HandleInterrupt()

	log.Info().Int("port", config.Server.HttpPort).Msg("starting software mentions service")
	if err := r.Run(fmt.Sprintf(":%d", config.Server.HttpPort)); err != nil {
		log.Fatal().Err(err).Send()
	}
}
