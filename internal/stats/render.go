// Package stats renders analysis reports as plain text.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/verte-zerg/textlens/internal/export"
	"github.com/verte-zerg/textlens/internal/model"
)

const (
	terminalWidthBackup = 80
	maxBarWidth         = 40
	minBarWidth         = 5
	barChar             = "#"
)

var printer = message.NewPrinter(language.English)

// RenderOptions controls plain-text report layout.
type RenderOptions struct {
	// Width is the total output width; zero uses the terminal width.
	Width int
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// ReadingTimeLabel renders reading time as "1 minute" or "N minutes".
func ReadingTimeLabel(minutes int) string {
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%s minutes", FormatCount(minutes))
}

// WordLengthLabel renders the average word length, e.g. "4.5 characters".
func WordLengthLabel(avg float64) string {
	return export.FormatNumber(avg) + " characters"
}

// FileTypeLabel returns the MIME type or "Unknown".
func FileTypeLabel(mimeType string) string {
	if mimeType == "" {
		return "Unknown"
	}
	return mimeType
}

// MetricRows returns the report statistics as label/value pairs.
func MetricRows(report model.Report) [][]string {
	return [][]string{
		{"Words", FormatCount(report.WordCount)},
		{"Characters", FormatCount(report.CharCount)},
		{"Characters (no spaces)", FormatCount(report.CharCountNoSpaces)},
		{"Sentences", FormatCount(report.SentenceCount)},
		{"Paragraphs", FormatCount(report.ParagraphCount)},
		{"Lines", FormatCount(report.LineCount)},
		{"Unique words", FormatCount(report.UniqueWords)},
		{"Reading time", ReadingTimeLabel(report.ReadingTimeMinutes)},
		{"Average word length", WordLengthLabel(report.AverageWordLength)},
		{"Longest word", report.LongestWord},
	}
}

// RenderReport prints file details, statistics, and keywords.
func RenderReport(w io.Writer, doc model.Document, report model.Report, opts RenderOptions) error {
	header := fmt.Sprintf("%s (%s, %s)", doc.Name, export.FormatFileSize(doc.Size), FileTypeLabel(doc.MIMEType))
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Statistics"); err != nil {
		return err
	}
	for _, line := range formatTable([]string{"Metric", "Value"}, MetricRows(report), nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return RenderKeywords(w, report.Keywords, opts)
}

// RenderKeywords prints the keyword table with proportional bars.
func RenderKeywords(w io.Writer, keywords []model.Keyword, opts RenderOptions) error {
	if _, err := fmt.Fprintln(w, "Top Keywords"); err != nil {
		return err
	}
	if len(keywords) == 0 {
		_, err := fmt.Fprintln(w, "No keywords found")
		return err
	}

	width := opts.Width
	if width <= 0 {
		width = terminalWidth()
	}
	maxCount := keywords[0].Count
	wordWidth, countWidth := len("Keyword"), len("Count")
	for _, kw := range keywords {
		maxCount = max(maxCount, kw.Count)
		wordWidth = max(wordWidth, runewidth.StringWidth(kw.Word))
		countWidth = max(countWidth, len(FormatCount(kw.Count)))
	}
	barWidth := min(maxBarWidth, max(minBarWidth, width-wordWidth-countWidth-4))

	rows := make([][]string, 0, len(keywords))
	for _, kw := range keywords {
		rows = append(rows, []string{kw.Word, FormatCount(kw.Count), bar(kw.Count, maxCount, barWidth)})
	}
	for _, line := range formatTable([]string{"Keyword", "Count", ""}, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Summary returns a one-line digest of a report.
func Summary(report model.Report) string {
	parts := []string{
		FormatCount(report.WordCount) + " words",
		FormatCount(report.SentenceCount) + " sentences",
		FormatCount(report.ParagraphCount) + " paragraphs",
		ReadingTimeLabel(report.ReadingTimeMinutes),
	}
	if len(report.Keywords) > 0 {
		parts = append(parts, "top keyword "+report.Keywords[0].Word)
	}
	return strings.Join(parts, ", ")
}

func bar(count, maxCount, width int) string {
	if maxCount <= 0 || count <= 0 {
		return ""
	}
	n := int(math.Round(float64(count) / float64(maxCount) * float64(width)))
	if n < 1 {
		n = 1
	}
	return strings.Repeat(barChar, n)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
