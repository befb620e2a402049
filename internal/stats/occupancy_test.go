package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/hashmarkov/internal/hashtable"
)

func collidingTable(t *testing.T) *hashtable.Table {
	t.Helper()
	table, err := hashtable.New(10)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	// 'a', 'k' and 'u' share home 7; 'b' sits alone at 8.
	for _, key := range []string{"a", "k", "u", "b"} {
		if err := table.Append(key, "x"); err != nil {
			t.Fatalf("append %q: %v", key, err)
		}
	}
	if err := table.Append("a", "y"); err != nil {
		t.Fatalf("append: %v", err)
	}
	return table
}

func TestAnalyze(t *testing.T) {
	occ, slots := Analyze(collidingTable(t))
	if occ.Capacity != 10 || occ.Used != 4 {
		t.Fatalf("unexpected occupancy: %+v", occ)
	}
	if occ.Collisions != 2 {
		t.Fatalf("expected 2 collisions, got %d", occ.Collisions)
	}
	if occ.MaxShift != 2 {
		t.Fatalf("expected max shift 2, got %d", occ.MaxShift)
	}
	if occ.MeanShift != 0.75 {
		t.Fatalf("expected mean shift 0.75, got %f", occ.MeanShift)
	}
	if occ.LongestRun != 4 {
		t.Fatalf("expected longest run 4, got %d", occ.LongestRun)
	}
	if occ.Successors != 5 {
		t.Fatalf("expected 5 successors, got %d", occ.Successors)
	}
	if len(slots) != 4 || slots[0].Index != 5 || slots[0].Key != "u" || slots[0].Shift != 2 {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}

func TestLongestRunWraps(t *testing.T) {
	occupied := []bool{true, true, false, false, true}
	if got := longestRun(occupied); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := longestRun([]bool{true, true}); got != 2 {
		t.Fatalf("expected full run 2, got %d", got)
	}
	if got := longestRun([]bool{false, false}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestFillBuckets(t *testing.T) {
	slots := []SlotInfo{{Index: 0}, {Index: 1}, {Index: 5}}
	fill := FillBuckets(slots, 6, 2)
	if len(fill) != 2 || fill[0] != 2.0/3.0 || fill[1] != 1.0/3.0 {
		t.Fatalf("unexpected fill: %v", fill)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1, 0.5}); got != " @+" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestRenderSummaryAndSlots(t *testing.T) {
	occ, slots := Analyze(collidingTable(t))
	var buf bytes.Buffer
	if err := RenderSummary(&buf, occ, slots, 40); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Slots used: 4 / 10 (load 40.0%)", "Collisions: 2", "Shift: max 2, mean 0.75"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSlots(&buf, slots, 80); err != nil {
		t.Fatalf("render slots: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d", len(lines))
	}
	if lines[1] != "   5    7     2    1 u" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}
