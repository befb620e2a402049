// Package chain builds the word-window Markov chain on top of the hash table.
package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/hashmarkov/internal/hashtable"
)

// Sentinel pads the initial window before any real words have been seen.
const Sentinel = "@"

// ErrInvalidPrefixLen is returned for a prefix length below one.
var ErrInvalidPrefixLen = errors.New("prefix length must be greater than 0")

// Prefix is a sliding window of the most recent words.
type Prefix []string

// NewPrefix returns a window of n sentinels.
func NewPrefix(n int) Prefix {
	p := make(Prefix, n)
	for i := range p {
		p[i] = Sentinel
	}
	return p
}

// String joins the window with single spaces to form a table key.
func (p Prefix) String() string {
	return strings.Join(p, " ")
}

// Shift drops the oldest word and appends word.
func (p Prefix) Shift(word string) {
	copy(p, p[1:])
	p[len(p)-1] = word
}

// Build records, for every prefixLen-word window of words, the word that
// follows it. Successors keep source order and duplicates.
func Build(words []string, prefixLen int, table *hashtable.Table) error {
	if prefixLen < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPrefixLen, prefixLen)
	}
	p := NewPrefix(prefixLen)
	for _, word := range words {
		if err := table.Append(p.String(), word); err != nil {
			return fmt.Errorf("failed to add %q: %w", word, err)
		}
		p.Shift(word)
	}
	return nil
}
