// Package corpus loads source text as a sequence of words.
package corpus

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"unicode"
)

// LoadWords reads the whitespace-delimited words of the file at path in
// source order. Case and punctuation are kept as written.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only source file.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords splits r into whitespace-delimited words. Words may be of any
// length.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	var word strings.Builder
	reader := bufio.NewReader(r)
	for {
		ch, _, err := reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if unicode.IsSpace(ch) {
			if word.Len() > 0 {
				words = append(words, word.String())
				word.Reset()
			}
			continue
		}
		word.WriteRune(ch)
	}
	if word.Len() > 0 {
		words = append(words, word.String())
	}
	return words, nil
}
