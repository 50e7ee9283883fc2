// Package wordlist loads stop-word lists from files.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadStopWords reads one word per line from the provided file path.
// Blank lines and lines starting with '#' are skipped; words are
// lower-cased and deduplicated in file order.
func LoadStopWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := Normalize(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("stop-word list is empty")
	}
	return words, nil
}

// Normalize trims and lower-cases a word list entry.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
