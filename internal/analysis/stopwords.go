package analysis

import "sort"

// defaultStopWords are English function words excluded from keyword counts.
var defaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "as", "is", "was", "are", "were", "be",
	"been", "being", "have", "has", "had", "do", "does", "did", "will",
	"would", "should", "could", "may", "might", "must", "can", "this",
	"that", "these", "those", "i", "you", "he", "she", "it", "we", "they",
	"what", "which", "who", "when", "where", "why", "how", "all", "each",
	"every", "both", "few", "more", "most", "other", "some", "such", "no",
	"nor", "not", "only", "own", "same", "so", "than", "too", "very",
}

// DefaultStopWords returns the built-in stop-word list in sorted order.
func DefaultStopWords() []string {
	out := append([]string(nil), defaultStopWords...)
	sort.Strings(out)
	return out
}

func stopWordSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(defaultStopWords)+len(extra))
	for _, w := range defaultStopWords {
		set[w] = struct{}{}
	}
	for _, w := range extra {
		w = foldWord(w)
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}
