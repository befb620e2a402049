package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	minKeyWidth         = 8
)

// TerminalWidth returns the stdout terminal width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// Sparkline renders a single-line ASCII sparkline for values in [0, 1].
func Sparkline(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(v * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the occupancy summary and an occupancy map that fits width.
func RenderSummary(w io.Writer, occ Occupancy, slots []SlotInfo, width int) error {
	lines := []string{
		"Table",
		fmt.Sprintf("  Slots used: %d / %d (load %.1f%%)", occ.Used, occ.Capacity, occ.LoadFactor*100),
		fmt.Sprintf("  Successors: %d", occ.Successors),
		fmt.Sprintf("  Collisions: %d", occ.Collisions),
		fmt.Sprintf("  Shift: max %d, mean %.2f", occ.MaxShift, occ.MeanShift),
		fmt.Sprintf("  Longest occupied run: %d", occ.LongestRun),
	}
	if width <= 0 {
		width = terminalWidthBackup
	}
	const mapPrefix = "  Map: |"
	if buckets := width - len(mapPrefix) - 1; buckets > 0 {
		lines = append(lines, mapPrefix+Sparkline(FillBuckets(slots, occ.Capacity, buckets))+"|")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSlots prints one row per occupied slot, shortening keys to fit width.
func RenderSlots(w io.Writer, slots []SlotInfo, width int) error {
	if len(slots) == 0 {
		_, err := fmt.Fprintln(w, "No occupied slots.")
		return err
	}
	headers := []string{"Slot", "Home", "Shift", "Next", "Key"}
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			strconv.Itoa(s.Home),
			strconv.Itoa(s.Shift),
			strconv.Itoa(s.Successors),
			s.Key,
		})
	}
	keyCol := len(headers) - 1
	fixed := 0
	for col := 0; col < keyCol; col++ {
		colWidth := len(headers[col])
		for _, row := range rows {
			if len(row[col]) > colWidth {
				colWidth = len(row[col])
			}
		}
		fixed += colWidth + 1
	}
	if keyWidth := width - fixed; width > 0 && keyWidth >= minKeyWidth {
		for _, row := range rows {
			row[keyCol] = truncate(row[keyCol], keyWidth)
		}
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
