// Package generator walks a built chain to produce text.
package generator

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/verte-zerg/hashmarkov/internal/chain"
	"github.com/verte-zerg/hashmarkov/internal/hashtable"
)

// DefaultSeed is the seed used when none is configured.
const DefaultSeed int64 = 8

var (
	// ErrUnknownPrefix is returned when the walk reaches a prefix that was
	// never recorded, which happens for empty or too-short sources.
	ErrUnknownPrefix = errors.New("prefix not found in chain")
	// ErrInvalidWordCount is returned for a word count below one.
	ErrInvalidWordCount = errors.New("word count must be greater than 0")
)

// Generator produces text from a chain.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate produces count words starting from the all-sentinel prefix.
// A step with a single successor takes it without drawing from the random
// source; a step with several draws exactly once.
func (g *Generator) Generate(table *hashtable.Table, prefixLen, count int) ([]string, error) {
	if prefixLen < 1 {
		return nil, fmt.Errorf("%w: got %d", chain.ErrInvalidPrefixLen, prefixLen)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWordCount, count)
	}
	p := chain.NewPrefix(prefixLen)
	result := make([]string, 0, count)
	for len(result) < count {
		key := p.String()
		value, ok := table.Get(key)
		if !ok || len(*value) == 0 {
			return result, fmt.Errorf("%w: %q after %d words", ErrUnknownPrefix, key, len(result))
		}
		word := g.pick(*value)
		result = append(result, word)
		p.Shift(word)
	}
	return result, nil
}

func (g *Generator) pick(successors []string) string {
	if len(successors) == 1 {
		return successors[0]
	}
	return successors[g.rnd.Intn(len(successors))]
}
