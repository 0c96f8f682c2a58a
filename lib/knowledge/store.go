package knowledge

import (
	"context"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache/local"
	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache/remote"
)

// Store finds knowledge base records by software name. The result only
// holds the names that were found.
type Store interface {
	Lookup(ctx context.Context, names []string) (map[string]*cache.Lookup, error)
}

// LocalStore serves lookups from memory.
type LocalStore struct {
	Client local.Client
}

func (s LocalStore) Lookup(ctx context.Context, names []string) (map[string]*cache.Lookup, error) {
	found := make(map[string]*cache.Lookup)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if lookup := s.Client.Get(name); lookup != nil {
			found[name] = lookup
		}
	}
	return found, nil
}

// RemoteStore queries redis or elasticsearch in pipelines of PipelineSize names.
type RemoteStore struct {
	Client       remote.Client
	PipelineSize int
}

func (s RemoteStore) Lookup(ctx context.Context, names []string) (map[string]*cache.Lookup, error) {
	size := s.PipelineSize
	if size <= 0 {
		size = len(names)
	}

	found := make(map[string]*cache.Lookup)
	onResult := func(key string, lookup *cache.Lookup) error {
		if lookup != nil {
			found[key] = lookup
		}
		return nil
	}

	for start := 0; start < len(names); start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + size
		if end > len(names) {
			end = len(names)
		}

		pipe := s.Client.NewGetPipeline(end - start)
		for _, name := range names[start:end] {
			pipe.Get(name)
		}
		if err := pipe.ExecGet(onResult); err != nil {
			return nil, err
		}
	}
	return found, nil
}
