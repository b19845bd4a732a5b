package courses

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/collegemap/pkg/fuzzy"
)

// match is the memoized best candidate for one raw college name.
type match struct {
	candidate string
	score     int
	ok        bool
}

// memoMatcher caches best-candidate lookups per raw name. Matching is pure,
// so a name repeated across many course rows is scored once.
type memoMatcher struct {
	pool  *fuzzy.Pool
	cache *gocache.Cache
}

func newMemoMatcher(scorer fuzzy.Scorer, names []string) *memoMatcher {
	return &memoMatcher{
		pool: fuzzy.NewPool(scorer, names...),
		// Entries live for a single pass; nothing expires.
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func (m *memoMatcher) best(name string) match {
	if cached, ok := m.cache.Get(name); ok {
		return cached.(match)
	}
	candidate, score, ok := m.pool.Best(name)
	result := match{candidate: candidate, score: score, ok: ok}
	m.cache.Set(name, result, gocache.NoExpiration)
	return result
}

// distinct returns the number of names looked up so far.
func (m *memoMatcher) distinct() int {
	return m.cache.ItemCount()
}
