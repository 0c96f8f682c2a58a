package local

import (
	"sync"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/cache"
)

func New() Client {
	return &local{
		store: make(map[string]*cache.Lookup),
		mut:   &sync.RWMutex{},
	}
}

// Client is an in-memory knowledge base keyed by cache.Key.
type Client interface {
	Get(key string) *cache.Lookup
	Set(key string, lookup *cache.Lookup)
	Delete(key string)
	Len() int
}

type local struct {
	store map[string]*cache.Lookup
	mut   *sync.RWMutex
}

func (l *local) Get(key string) *cache.Lookup {
	l.mut.RLock()
	defer l.mut.RUnlock()

	lookup, ok := l.store[cache.Key(key)]
	if !ok {
		return nil
	}

	return lookup
}

func (l *local) Set(key string, lookup *cache.Lookup) {
	l.mut.Lock()
	defer l.mut.Unlock()

	l.store[cache.Key(key)] = lookup
}

func (l *local) Delete(key string) {
	l.mut.Lock()
	defer l.mut.Unlock()

	delete(l.store, cache.Key(key))
}

func (l *local) Len() int {
	l.mut.RLock()
	defer l.mut.RUnlock()

	return len(l.store)
}

// Add stores lookup under every one of its names.
func Add(c Client, lookup *cache.Lookup) {
	for _, key := range lookup.Keys() {
		c.Set(key, lookup)
	}
}
