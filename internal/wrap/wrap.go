// Package wrap formats generated words into lines.
package wrap

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WordsPerLine is the default line length in words.
const WordsPerLine = 10

// Lines groups words perLine at a time. Full lines end with a newline and
// whatever remains forms the last line, so 23 words give 10, 10 and 3.
func Lines(words []string, perLine int) string {
	if perLine <= 0 {
		return strings.Join(words, " ")
	}
	var b strings.Builder
	for len(words) > perLine {
		b.WriteString(strings.Join(words[:perLine], " "))
		b.WriteByte('\n')
		words = words[perLine:]
	}
	b.WriteString(strings.Join(words, " "))
	return b.String()
}

// Width greedily fills lines up to cols display columns. A word wider than
// cols is placed on a line of its own.
func Width(words []string, cols int) string {
	if cols <= 0 {
		return strings.Join(words, " ")
	}
	var out strings.Builder
	lineWidth := 0
	for i, word := range words {
		w := runewidth.StringWidth(word)
		if i > 0 {
			if lineWidth > 0 && lineWidth+1+w > cols {
				out.WriteByte('\n')
				lineWidth = 0
			} else {
				out.WriteByte(' ')
				lineWidth++
			}
		}
		out.WriteString(word)
		lineWidth += w
	}
	return out.String()
}
