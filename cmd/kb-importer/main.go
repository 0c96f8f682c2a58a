package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache/remote"
)

type backend string

const (
	redisBackend         backend = "redis"
	elasticsearchBackend backend = "elasticsearch"
)

// config structure
type kbImporterConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	KnowledgeBase  struct {
		Path   string
		Format cache.Format
	} `mapstructure:"knowledge_base"`
	Backend       backend `mapstructure:"knowledge_base_backend"`
	PipelineSize  int     `mapstructure:"pipeline_size"`
	Redis         remote.RedisConfig
	Elasticsearch remote.ElasticsearchConfig
}

var config kbImporterConfig

func initConfig() {
	err := lib.InitializeConfig("./config/kb-importer.yml", map[string]interface{}{
		"log_level":              "info",
		"knowledge_base_backend": redisBackend,
		"pipeline_size":          10000,
		"knowledge_base": map[string]interface{}{
			"path":   "./resources/kb/software.jsonl",
			"format": cache.JSONLFormat,
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

func main() {
	initConfig()

	var client remote.Client
	var err error
	switch config.Backend {
	case redisBackend:
		client = remote.NewRedisClient(config.Redis)
	case elasticsearchBackend:
		client, err = remote.NewElasticsearchClient(config.Elasticsearch)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
	default:
		log.Fatal().Str("backend", string(config.Backend)).Msg("invalid knowledge base backend")
	}

	kb, err := os.Open(config.KnowledgeBase.Path)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer kb.Close()

	for !client.Ready() {
		log.Info().Msg("knowledge base backend is not ready, waiting...")
		time.Sleep(10 * time.Second)
	}

	imp := importer{
		client:       client,
		keyed:        keyedBy(config.Backend),
		pipelineSize: config.PipelineSize,
	}
	records, keys, err := imp.upload(kb, config.KnowledgeBase.Format)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	log.Info().Int("records", records).Int("keys", keys).Str("backend", string(config.Backend)).Msg("knowledge base imported")
}
