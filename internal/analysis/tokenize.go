package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// paragraphBreak matches a newline, optional whitespace, and another newline.
var paragraphBreak = regexp.MustCompile(`\n[\s\v\p{Z}\x{FEFF}]*\n`)

func isSpace(r rune) bool {
	return r == '\uFEFF' || unicode.IsSpace(r)
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// isWordChar reports whether r is an ASCII letter, digit, or underscore.
func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, isSpace)
}

func foldWord(w string) string {
	return strings.ToLower(trimSpace(w))
}

func countNonBlank(segments []string) int {
	n := 0
	for _, seg := range segments {
		if trimSpace(seg) != "" {
			n++
		}
	}
	return n
}

func countSentences(text string) int {
	return countNonBlank(strings.FieldsFunc(text, isTerminal))
}

func countParagraphs(text string) int {
	return countNonBlank(paragraphBreak.Split(text, -1))
}

// contentTokens case-folds text, blanks out everything that is not a word
// character or whitespace, and splits the result on whitespace.
func contentTokens(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if isWordChar(r) || isSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))
	return tokenize(cleaned)
}
