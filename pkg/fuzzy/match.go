package fuzzy

import "sort"

// Candidate is a scored candidate name.
type Candidate struct {
	Name  string `json:"name" yaml:"name"`
	Score int    `json:"score" yaml:"score"`
}

// Match returns the best-scoring candidate for query. It returns ok=false
// with score 0 when candidates is empty. Ties go to the first candidate
// in order.
func Match(query string, candidates []string, scorer Scorer) (best string, score int, ok bool) {
	pool := NewPool(scorer)
	for _, c := range candidates {
		pool.Add(c)
	}
	return pool.Best(query)
}

// Rank scores every candidate and returns the top limit candidates by
// descending score, ties in candidate order. A limit <= 0 returns all.
func Rank(query string, candidates []string, scorer Scorer, limit int) []Candidate {
	q := scorer.Prepare(query)
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Candidate{Name: c, Score: scorer.Compare(q, scorer.Prepare(c))})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Pool is a set of candidate names prepared once for repeated matching.
// Names keep insertion order; adding a name twice is a no-op, which does
// not change results because a repeated name can never win a tie.
type Pool struct {
	scorer   Scorer
	bounder  upperBounder
	names    []string
	prepared []string
	seen     map[string]struct{}
}

// NewPool creates a pool for the scorer, seeded with names in order.
func NewPool(scorer Scorer, names ...string) *Pool {
	if scorer == nil {
		scorer = TokenSort
	}
	p := &Pool{
		scorer: scorer,
		seen:   make(map[string]struct{}, len(names)),
	}
	p.bounder, _ = scorer.(upperBounder)
	for _, n := range names {
		p.Add(n)
	}
	return p
}

// Add appends a candidate name. It reports whether the name was new.
func (p *Pool) Add(name string) bool {
	if _, ok := p.seen[name]; ok {
		return false
	}
	p.seen[name] = struct{}{}
	p.names = append(p.names, name)
	p.prepared = append(p.prepared, p.scorer.Prepare(name))
	return true
}

// Len returns the number of distinct candidate names.
func (p *Pool) Len() int {
	return len(p.names)
}

// Scorer returns the pool's scorer.
func (p *Pool) Scorer() Scorer {
	return p.scorer
}

// Best returns the best candidate for query; see Match.
func (p *Pool) Best(query string) (best string, score int, ok bool) {
	if len(p.names) == 0 {
		return "", 0, false
	}
	q := p.scorer.Prepare(query)
	bestIdx := -1
	bestScore := -1
	for i, cand := range p.prepared {
		if p.bounder != nil && bestIdx >= 0 && p.bounder.UpperBound(q, cand) <= bestScore {
			continue
		}
		s := p.scorer.Compare(q, cand)
		if s > bestScore {
			bestIdx, bestScore = i, s
			if s == 100 {
				break
			}
		}
	}
	return p.names[bestIdx], bestScore, true
}
