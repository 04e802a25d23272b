// Package derive produces the display data that every cycle recomputes: the
// generated dataset, its filtered view and the per-item "expensive" number.
package derive

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Item is one row of the generated dataset.
type Item struct {
	ID          int
	Name        string
	Value       float64
	Description string
}

// Generate builds a fresh dataset of n items. Each call returns a new slice.
func Generate(n int, rng *rand.Rand) []Item {
	if n < 0 {
		n = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:          i,
			Name:        fmt.Sprintf("Item %d", i),
			Value:       rng.Float64() * 1000,
			Description: strings.Repeat(fmt.Sprintf("Description of item number %d. ", i), 10),
		}
	}
	return items
}

// Filter returns the items whose name or description contains term, ignoring
// case. An empty term keeps every item. The result is always a new slice.
func Filter(items []Item, term string) []Item {
	needle := strings.ToLower(term)
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Calculator runs the opaque numeric loop shown next to each visible item.
// Only the number of calls matters.
type Calculator struct {
	Iterations int
	calls      int
}

// Run performs one calculation.
func (c *Calculator) Run() float64 {
	c.calls++
	result := 0.0
	for i := 0; i < c.Iterations; i++ {
		f := float64(i)
		result += math.Sin(f) * math.Cos(f)
	}
	return result
}

// Calls counts Run invocations.
func (c *Calculator) Calls() int { return c.calls }
