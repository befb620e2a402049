package hashtable

import (
	"errors"
	"math/big"
	"strings"
	"testing"
)

func mustNew(t *testing.T, capacity int) *Table {
	t.Helper()
	table, err := New(capacity)
	if err != nil {
		t.Fatalf("New(%d): %v", capacity, err)
	}
	return table
}

func slotOf(t *testing.T, table *Table, key string) int {
	t.Helper()
	found := -1
	table.Range(func(index int, k string, _ []string) bool {
		if k == key {
			found = index
			return false
		}
		return true
	})
	if found < 0 {
		t.Fatalf("key %q not stored", key)
	}
	return found
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		if _, err := New(capacity); !errors.Is(err, ErrInvalidCapacity) {
			t.Fatalf("expected ErrInvalidCapacity for %d, got %v", capacity, err)
		}
	}
}

func TestHashPolynomial(t *testing.T) {
	table := mustNew(t, 100)
	// 31*97 + 98 = 3105.
	if got := table.Hash("ab"); got != 5 {
		t.Fatalf("expected hash 5, got %d", got)
	}
	if got := table.Hash(""); got != 0 {
		t.Fatalf("expected empty key to hash to 0, got %d", got)
	}
}

func TestHashUsesCodePoints(t *testing.T) {
	table := mustNew(t, 1000)
	// 'é' is U+00E9 (233), two bytes in UTF-8.
	if got := table.Hash("é"); got != 233 {
		t.Fatalf("expected hash 233, got %d", got)
	}
}

func TestHashMatchesUnreducedPolynomial(t *testing.T) {
	key := strings.Repeat("the quick brown fox jumps over the lazy dog ", 8)
	for _, capacity := range []int{1, 7, 4093, 1 << 20} {
		table := mustNew(t, capacity)
		h := new(big.Int)
		for _, r := range key {
			h.Mul(h, big.NewInt(31))
			h.Add(h, big.NewInt(int64(r)))
		}
		want := new(big.Int).Mod(h, big.NewInt(int64(capacity))).Int64()
		if got := table.Hash(key); int64(got) != want {
			t.Fatalf("capacity %d: expected %d, got %d", capacity, want, got)
		}
	}
}

func TestPutGetDistinctKeys(t *testing.T) {
	table := mustNew(t, 64)
	keys := []string{"@ @", "@ the", "the cat", "cat sat", "sat on", "on the", "the mat"}
	for i, key := range keys {
		if err := table.Put(key, []string{keys[(i+1)%len(keys)]}); err != nil {
			t.Fatalf("Put(%q): %v", key, err)
		}
	}
	if table.Len() != len(keys) {
		t.Fatalf("expected %d entries, got %d", len(keys), table.Len())
	}
	for i, key := range keys {
		if !table.Contains(key) {
			t.Fatalf("expected %q to be present", key)
		}
		value, ok := table.Get(key)
		if !ok {
			t.Fatalf("Get(%q) missing", key)
		}
		want := keys[(i+1)%len(keys)]
		if len(*value) != 1 || (*value)[0] != want {
			t.Fatalf("Get(%q) = %v, want [%s]", key, *value, want)
		}
	}
}

func TestCollisionsProbeBackward(t *testing.T) {
	table := mustNew(t, 10)
	// 'a'=97, 'k'=107, 'u'=117 all land on home 7.
	for _, key := range []string{"a", "k", "u"} {
		if table.Hash(key) != 7 {
			t.Fatalf("expected %q to hash to 7", key)
		}
		if err := table.Put(key, []string{key + "!"}); err != nil {
			t.Fatalf("Put(%q): %v", key, err)
		}
	}
	want := map[string]int{"a": 7, "k": 6, "u": 5}
	for key, index := range want {
		if got := slotOf(t, table, key); got != index {
			t.Fatalf("expected %q at slot %d, got %d", key, index, got)
		}
		value, ok := table.Get(key)
		if !ok || (*value)[0] != key+"!" {
			t.Fatalf("Get(%q) returned %v, %v", key, value, ok)
		}
	}
}

func TestCollisionProbeWrapsToEnd(t *testing.T) {
	table := mustNew(t, 3)
	// 'c'=99 and 'f'=102 both have home 0; the second wraps to slot 2.
	if err := table.Put("c", []string{"x"}); err != nil {
		t.Fatalf("Put(c): %v", err)
	}
	if err := table.Put("f", []string{"y"}); err != nil {
		t.Fatalf("Put(f): %v", err)
	}
	if got := slotOf(t, table, "f"); got != 2 {
		t.Fatalf("expected f at slot 2, got %d", got)
	}
}

func TestGetAbsentTerminates(t *testing.T) {
	table := mustNew(t, 10)
	for _, key := range []string{"a", "k", "u"} {
		if err := table.Put(key, []string{key}); err != nil {
			t.Fatalf("Put(%q): %v", key, err)
		}
	}
	// '%'=37 also has home 7 but was never inserted.
	if table.Contains("%") {
		t.Fatalf("expected %% to be absent")
	}
	if _, ok := table.Get("zz"); ok {
		t.Fatalf("expected zz to be absent")
	}
}

func TestFullTable(t *testing.T) {
	table := mustNew(t, 3)
	for _, key := range []string{"c", "f", "i"} {
		if err := table.Put(key, []string{key}); err != nil {
			t.Fatalf("Put(%q): %v", key, err)
		}
	}
	if table.Len() != table.Cap() {
		t.Fatalf("expected table to be full, len=%d cap=%d", table.Len(), table.Cap())
	}
	if table.Contains("l") {
		t.Fatalf("expected l to be absent from a full table")
	}
	if err := table.Put("l", []string{"l"}); !errors.Is(err, ErrTableFull) {
		t.Fatalf("expected ErrTableFull, got %v", err)
	}
	for _, key := range []string{"c", "f", "i"} {
		if !table.Contains(key) {
			t.Fatalf("expected %q to survive a failed put", key)
		}
	}
}

func TestCapacityOne(t *testing.T) {
	table := mustNew(t, 1)
	if err := table.Put("only", []string{"x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !table.Contains("only") {
		t.Fatalf("expected key in single-slot table")
	}
	if table.Contains("other") {
		t.Fatalf("expected other to be absent")
	}
	if err := table.Put("other", nil); !errors.Is(err, ErrTableFull) {
		t.Fatalf("expected ErrTableFull, got %v", err)
	}
}

func TestGetReturnsSharedValue(t *testing.T) {
	table := mustNew(t, 8)
	if err := table.Put("k", []string{"a"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	value, _ := table.Get("k")
	*value = append(*value, "b")

	again, _ := table.Get("k")
	if len(*again) != 2 || (*again)[1] != "b" {
		t.Fatalf("expected in-place append to be visible, got %v", *again)
	}
}

func TestAppendKeepsDuplicatesInOrder(t *testing.T) {
	table := mustNew(t, 8)
	for _, word := range []string{"b", "a", "b"} {
		if err := table.Append("k", word); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if table.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", table.Len())
	}
	value, _ := table.Get("k")
	if strings.Join(*value, ",") != "b,a,b" {
		t.Fatalf("unexpected successors: %v", *value)
	}
}

func TestString(t *testing.T) {
	table := mustNew(t, 3)
	if err := table.Put("c", []string{"x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	want := `[["c", ["x"]], <nil>, <nil>]`
	if got := table.String(); got != want {
		t.Fatalf("unexpected dump: %s", got)
	}
}
