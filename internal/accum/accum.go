// Package accum holds the large-data accumulator: a list that grows by a fixed
// batch on every generate and only shrinks on an explicit clear.
package accum

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	// DefaultBatch is the number of items added per Generate.
	DefaultBatch = 10000
	// DefaultPayloadLen is the number of floats carried by each item.
	DefaultPayloadLen = 1000
)

// BigItem is one accumulated record.
type BigItem struct {
	ID          int64
	Payload     []float64
	Timestamp   time.Time
	Description string
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithBatch overrides the batch size.
func WithBatch(n int) Option {
	return func(a *Accumulator) {
		if n > 0 {
			a.batch = n
		}
	}
}

// WithPayloadLen overrides the payload length.
func WithPayloadLen(n int) Option {
	return func(a *Accumulator) {
		if n >= 0 {
			a.payloadLen = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Accumulator) {
		if now != nil {
			a.now = now
		}
	}
}

// Accumulator builds batches. It holds no items itself; callers keep the
// returned slices in their state, which is what makes the growth observable.
type Accumulator struct {
	batch      int
	payloadLen int
	now        func() time.Time
	rng        *rand.Rand
}

// New returns an Accumulator with the default batch and payload sizes.
func New(opts ...Option) *Accumulator {
	a := &Accumulator{
		batch:      DefaultBatch,
		payloadLen: DefaultPayloadLen,
		now:        time.Now,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Batch returns the number of items Generate adds.
func (a *Accumulator) Batch() int { return a.batch }

// Generate returns prev with a new batch appended. prev is not modified.
func (a *Accumulator) Generate(prev []BigItem) []BigItem {
	now := a.now()
	base := now.UnixMilli()
	out := make([]BigItem, len(prev), len(prev)+a.batch)
	copy(out, prev)
	for i := 0; i < a.batch; i++ {
		payload := make([]float64, a.payloadLen)
		for j := range payload {
			payload[j] = a.rng.Float64()
		}
		out = append(out, BigItem{
			ID:          base + int64(i),
			Payload:     payload,
			Timestamp:   now,
			Description: strings.Repeat(fmt.Sprintf("Large data item %d", i), 50),
		})
	}
	return out
}

// Clear returns an empty accumulator list.
func (a *Accumulator) Clear() []BigItem { return []BigItem{} }

// ApproxBytes estimates the memory held by items.
func ApproxBytes(items []BigItem) uint64 {
	var total uint64
	for _, item := range items {
		total += uint64(len(item.Payload))*8 + uint64(len(item.Description)) + 64
	}
	return total
}

// Footprint formats ApproxBytes for display, e.g. "82 MB".
func Footprint(items []BigItem) string {
	return humanize.Bytes(ApproxBytes(items))
}
