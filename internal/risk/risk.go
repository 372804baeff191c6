// Package risk produces the risk percentage shown on the trade confirmation step.
// The value is illustrative only: it is not derived from volatility, beta or any market signal.
package risk

import (
	"math/rand/v2"
	"sync"
)

type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	min int
	max int
}

// New returns a generator of uniform integers in [min, max]. A nil src uses a random seed.
func New(min, max int, src rand.Source) *Generator {
	if min > max {
		min, max = max, min
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rnd: rand.New(src), min: min, max: max}
}

// Illustrative never fails.
func (g *Generator) Illustrative() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.min + g.rnd.IntN(g.max-g.min+1)
}
