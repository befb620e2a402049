// Package hashtable implements the fixed-capacity, open-addressing table that
// backs the Markov chain.
//
// Keys hash with a base-31 polynomial over their code points, reduced modulo
// the capacity. Collisions are resolved by probing backward (home-1, home-2,
// ...) with wrap-around. The table never grows and never removes entries, so
// a key keeps its slot index for the life of the table.
package hashtable

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCapacity is returned by New for a capacity below one.
	ErrInvalidCapacity = errors.New("capacity must be greater than 0")
	// ErrTableFull is returned by Put when no empty slot remains.
	ErrTableFull = errors.New("hash table is full")
)

type slot struct {
	used  bool
	key   string
	value []string
}

// Table maps prefix keys to successor lists.
type Table struct {
	slots []slot
	used  int
}

// New allocates a table with capacity empty slots.
func New(capacity int) (*Table, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Table{slots: make([]slot, capacity)}, nil
}

// Cap returns the number of slots.
func (t *Table) Cap() int {
	return len(t.slots)
}

// Len returns the number of occupied slots.
func (t *Table) Len() int {
	return t.used
}

// Hash returns the home index of key.
func (t *Table) Hash(key string) int {
	m := uint64(len(t.slots))
	var h uint64
	for _, r := range key {
		h = (31*h + uint64(r)) % m
	}
	return int(h)
}

func (t *Table) prev(index int) int {
	if index == 0 {
		return len(t.slots) - 1
	}
	return index - 1
}

// Put stores value under key in the home slot or, on collision, the first
// empty slot found walking backward from it. Put does not look for an
// existing binding; use Append to extend one.
func (t *Table) Put(key string, value []string) error {
	home := t.Hash(key)
	index := home
	if t.slots[index].used {
		index = t.prev(home)
		for t.slots[index].used {
			if index == home {
				return fmt.Errorf("%w: no slot for %q (capacity %d)", ErrTableFull, key, len(t.slots))
			}
			index = t.prev(index)
		}
	}
	t.slots[index] = slot{used: true, key: key, value: value}
	t.used++
	return nil
}

// Get returns a pointer to the successor list stored under key. The pointer
// stays valid for the life of the table, so callers may append through it.
func (t *Table) Get(key string) (*[]string, bool) {
	index, ok := t.find(key)
	if !ok {
		return nil, false
	}
	return &t.slots[index].value, true
}

// Contains reports whether key is bound.
func (t *Table) Contains(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Append adds word to the list under key, inserting a new single-word list
// when the key is unbound.
func (t *Table) Append(key, word string) error {
	if value, ok := t.Get(key); ok {
		*value = append(*value, word)
		return nil
	}
	return t.Put(key, []string{word})
}

func (t *Table) find(key string) (int, bool) {
	home := t.Hash(key)
	s := &t.slots[home]
	if !s.used {
		return 0, false
	}
	if s.key == key {
		return home, true
	}
	for index := t.prev(home); index != home && t.slots[index].used; index = t.prev(index) {
		if t.slots[index].key == key {
			return index, true
		}
	}
	return 0, false
}

// Range calls fn for every occupied slot in index order until fn returns false.
func (t *Table) Range(fn func(index int, key string, value []string) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.used {
			continue
		}
		if !fn(i, s.key, s.value) {
			return
		}
	}
}

// String renders the slot array, with empty slots shown as <nil>.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := range t.slots {
		if i > 0 {
			b.WriteString(", ")
		}
		s := &t.slots[i]
		if !s.used {
			b.WriteString("<nil>")
			continue
		}
		fmt.Fprintf(&b, "[%q, %q]", s.key, s.value)
	}
	b.WriteByte(']')
	return b.String()
}
