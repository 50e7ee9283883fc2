// Package analysis computes text statistics and keyword frequencies.
package analysis

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/verte-zerg/textlens/internal/model"
)

const (
	// DefaultKeywordLimit is the number of keywords returned when no limit is given.
	DefaultKeywordLimit = 10
	// WordsPerMinute is the reading speed used for reading time.
	WordsPerMinute = 200
	// MinKeywordLength is the length a content word must exceed.
	MinKeywordLength = 3

	noLongestWord = "-"
)

// Engine analyses document text. An Engine is immutable and safe for
// concurrent use.
type Engine struct {
	stopWords map[string]struct{}
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	extraStopWords []string
}

// WithStopWords adds words to the default stop-word set.
func WithStopWords(words ...string) Option {
	return func(o *engineOptions) {
		o.extraStopWords = append(o.extraStopWords, words...)
	}
}

// NewEngine returns an Engine using the default stop words plus any extras.
func NewEngine(opts ...Option) *Engine {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{stopWords: stopWordSet(o.extraStopWords)}
}

var defaultEngine = NewEngine()

// Analyze runs the default engine over text.
func Analyze(text string, keywordLimit int) model.Report {
	return defaultEngine.Analyze(text, keywordLimit)
}

// IsStopWord reports whether the case-folded word is excluded from keywords.
func (e *Engine) IsStopWord(word string) bool {
	_, ok := e.stopWords[foldWord(word)]
	return ok
}

// StopWords returns the effective stop-word set in sorted order.
func (e *Engine) StopWords() []string {
	out := make([]string, 0, len(e.stopWords))
	for w := range e.stopWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Analyze computes a report for text. A negative keywordLimit selects
// DefaultKeywordLimit; zero returns no keywords.
func (e *Engine) Analyze(text string, keywordLimit int) model.Report {
	if keywordLimit < 0 {
		keywordLimit = DefaultKeywordLimit
	}
	tokens := tokenize(text)

	report := model.Report{
		WordCount:         len(tokens),
		CharCount:         utf8.RuneCountInString(text),
		CharCountNoSpaces: countNonSpace(text),
		SentenceCount:     countSentences(text),
		ParagraphCount:    countParagraphs(text),
		LineCount:         countLines(text),
		UniqueWords:       countUnique(tokens),
		AverageWordLength: averageLength(tokens),
		LongestWord:       longestWord(tokens),
		Keywords:          e.keywords(text, keywordLimit),
	}
	report.ReadingTimeMinutes = ReadingTime(report.WordCount)
	return report
}

// ReadingTime returns whole minutes needed to read wordCount words.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + WordsPerMinute - 1) / WordsPerMinute
}

func countNonSpace(text string) int {
	n := 0
	for _, r := range text {
		if !isSpace(r) {
			n++
		}
	}
	return n
}

func countLines(text string) int {
	n := 1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			n++
		}
	}
	return n
}

func countUnique(tokens []string) int {
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		seen[foldWord(tok)] = struct{}{}
	}
	return len(seen)
}

func averageLength(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	total := 0
	for _, tok := range tokens {
		total += utf8.RuneCountInString(tok)
	}
	return roundHalfUp(float64(total)/float64(len(tokens)), 1)
}

func roundHalfUp(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Floor(v*scale+0.5) / scale
}

func longestWord(tokens []string) string {
	if len(tokens) == 0 {
		return noLongestWord
	}
	longest := tokens[0]
	longestLen := utf8.RuneCountInString(longest)
	for _, tok := range tokens[1:] {
		if n := utf8.RuneCountInString(tok); n > longestLen {
			longest, longestLen = tok, n
		}
	}
	return longest
}

func (e *Engine) keywords(text string, limit int) []model.Keyword {
	counts := map[string]int{}
	var order []string
	for _, tok := range contentTokens(text) {
		if len(tok) <= MinKeywordLength {
			continue
		}
		if _, stop := e.stopWords[tok]; stop {
			continue
		}
		if _, ok := counts[tok]; !ok {
			order = append(order, tok)
		}
		counts[tok]++
	}

	out := make([]model.Keyword, 0, len(order))
	for _, word := range order {
		out = append(out, model.Keyword{Word: word, Count: counts[word]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}
