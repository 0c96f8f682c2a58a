package main

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache/remote"
)

// keys returns the keys a record is stored under.
type keys func(lookup *cache.Lookup) []string

// byName stores a copy of the record under each of its names, for key-value stores.
func byName(lookup *cache.Lookup) []string {
	return lookup.Keys()
}

// byID stores a single document per record. Search stores find it by its names.
func byID(lookup *cache.Lookup) []string {
	if lookup.WikidataID == "" {
		return lookup.Keys()[:1]
	}
	return []string{lookup.WikidataID}
}

func keyedBy(b backend) keys {
	if b == elasticsearchBackend {
		return byID
	}
	return byName
}

type importer struct {
	client       remote.Client
	keyed        keys
	pipelineSize int
}

// upload writes every record of r to the backend, flushing a pipeline each
// time it holds more than pipelineSize keys.
func (imp importer) upload(r io.Reader, format cache.Format) (records, keys int, err error) {
	pipe := imp.client.NewSetPipeline(imp.pipelineSize)

	err = cache.ReadWithCallback(format, r, func(lookup *cache.Lookup) error {
		b, err := json.Marshal(lookup)
		if err != nil {
			return err
		}
		for _, key := range imp.keyed(lookup) {
			pipe.Set(key, b)
			keys++
		}
		records++

		if pipe.Size() > imp.pipelineSize {
			log.Info().Int("records", records).Int("keys", keys).Msg("upserting knowledge base...")
			if err := pipe.ExecSet(); err != nil {
				return err
			}
			pipe = imp.client.NewSetPipeline(imp.pipelineSize)
		}
		return nil
	})
	if err != nil {
		return records, keys, err
	}

	if pipe.Size() > 0 {
		if err := pipe.ExecSet(); err != nil {
			return records, keys, err
		}
	}
	return records, keys, nil
}
