package derive

import "math/rand/v2"

// View is the result of one derivation pass.
type View struct {
	Dataset  []Item
	Filtered []Item
}

// Engine derives the filtered view from a search term. By default both the
// dataset and the filter are recomputed on every call; SetMemoize switches
// to the cached variant for comparison.
type Engine struct {
	size     int
	rng      *rand.Rand
	dataset  Memo[[]Item]
	filtered Memo[[]Item]
}

// NewEngine builds an engine producing datasets of size items.
func NewEngine(size int, memoize bool, rng *rand.Rand) *Engine {
	e := &Engine{size: size, rng: rng}
	e.SetMemoize(memoize)
	return e
}

// SetMemoize toggles caching. Turning it off drops cached values.
func (e *Engine) SetMemoize(on bool) {
	e.dataset.Enabled = on
	e.filtered.Enabled = on
	if !on {
		e.dataset.Reset()
		e.filtered.Reset()
	}
}

// Compute derives the view for term.
func (e *Engine) Compute(term string) View {
	dataset := e.dataset.Get(nil, func() []Item { return Generate(e.size, e.rng) })
	filtered := e.filtered.Get([]any{dataset, term}, func() []Item { return Filter(dataset, term) })
	return View{Dataset: dataset, Filtered: filtered}
}

// Generations counts dataset regenerations.
func (e *Engine) Generations() int { return e.dataset.Computes() }

// Filterings counts filter passes.
func (e *Engine) Filterings() int { return e.filtered.Computes() }
