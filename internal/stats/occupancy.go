// Package stats computes occupancy and probing statistics for a chain table.
package stats

import "github.com/verte-zerg/hashmarkov/internal/hashtable"

// SlotInfo describes one occupied slot.
type SlotInfo struct {
	Index      int
	Home       int
	Shift      int
	Key        string
	Successors int
}

// Occupancy summarizes how full a table is and how far keys were probed.
type Occupancy struct {
	Capacity   int
	Used       int
	LoadFactor float64
	Collisions int
	MaxShift   int
	MeanShift  float64
	LongestRun int
	Successors int
}

// Shift returns how many backward steps separate index from home.
func Shift(home, index, capacity int) int {
	return (home - index + capacity) % capacity
}

// Analyze walks every slot of table.
func Analyze(table *hashtable.Table) (Occupancy, []SlotInfo) {
	capacity := table.Cap()
	occ := Occupancy{Capacity: capacity, Used: table.Len()}
	occupied := make([]bool, capacity)
	slots := make([]SlotInfo, 0, table.Len())
	totalShift := 0
	table.Range(func(index int, key string, value []string) bool {
		home := table.Hash(key)
		info := SlotInfo{
			Index:      index,
			Home:       home,
			Shift:      Shift(home, index, capacity),
			Key:        key,
			Successors: len(value),
		}
		if info.Shift > 0 {
			occ.Collisions++
		}
		if info.Shift > occ.MaxShift {
			occ.MaxShift = info.Shift
		}
		totalShift += info.Shift
		occ.Successors += info.Successors
		occupied[index] = true
		slots = append(slots, info)
		return true
	})
	if capacity > 0 {
		occ.LoadFactor = float64(occ.Used) / float64(capacity)
	}
	if occ.Used > 0 {
		occ.MeanShift = float64(totalShift) / float64(occ.Used)
	}
	occ.LongestRun = longestRun(occupied)
	return occ, slots
}

// longestRun measures the longest circular stretch of occupied slots.
func longestRun(occupied []bool) int {
	start := -1
	for i, used := range occupied {
		if !used {
			start = i
			break
		}
	}
	if start < 0 {
		return len(occupied)
	}
	longest, run := 0, 0
	for step := 1; step <= len(occupied); step++ {
		if occupied[(start+step)%len(occupied)] {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	return longest
}

// FillBuckets splits the slot array into buckets contiguous ranges and
// returns the fraction of occupied slots in each.
func FillBuckets(slots []SlotInfo, capacity, buckets int) []float64 {
	if capacity <= 0 || buckets <= 0 {
		return nil
	}
	if buckets > capacity {
		buckets = capacity
	}
	counts := make([]int, buckets)
	for _, s := range slots {
		counts[s.Index*buckets/capacity]++
	}
	out := make([]float64, buckets)
	for b := range counts {
		lo := b * capacity / buckets
		hi := (b + 1) * capacity / buckets
		out[b] = float64(counts[b]) / float64(hi-lo)
	}
	return out
}
