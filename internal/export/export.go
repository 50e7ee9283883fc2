// Package export serializes analysis reports to JSON and CSV.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/textlens/internal/model"
)

// Format is an export file format.
type Format string

// Supported export formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const (
	// JSONPreviewChars is the number of characters of text embedded in JSON exports.
	JSONPreviewChars = 500

	isoMillis  = "2006-01-02T15:04:05.000Z"
	csvDateFmt = "1/2/2006, 3:04:05 PM"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use json or csv)", name)
	}
}

type jsonStatistics struct {
	WordCount              int     `json:"wordCount"`
	CharacterCount         int     `json:"characterCount"`
	CharacterCountNoSpaces int     `json:"characterCountNoSpaces"`
	SentenceCount          int     `json:"sentenceCount"`
	ParagraphCount         int     `json:"paragraphCount"`
	LineCount              int     `json:"lineCount"`
	UniqueWords            int     `json:"uniqueWords"`
	ReadingTimeMinutes     int     `json:"readingTimeMinutes"`
	AverageWordLength      float64 `json:"averageWordLength"`
	LongestWord            string  `json:"longestWord"`
}

type jsonDocument struct {
	FileName        string          `json:"fileName"`
	FileSize        int64           `json:"fileSize"`
	FileType        string          `json:"fileType"`
	AnalysisDate    string          `json:"analysisDate"`
	Statistics      jsonStatistics  `json:"statistics"`
	Keywords        []model.Keyword `json:"keywords"`
	DocumentPreview string          `json:"documentPreview"`
}

// WriteJSON writes the report with file metadata and a short text preview.
func WriteJSON(w io.Writer, meta model.ExportMeta, report model.Report, text string) error {
	keywords := report.Keywords
	if keywords == nil {
		keywords = []model.Keyword{}
	}
	preview, _ := Preview(text, JSONPreviewChars)
	doc := jsonDocument{
		FileName:     meta.FileName,
		FileSize:     meta.FileSize,
		FileType:     meta.FileType,
		AnalysisDate: meta.AnalyzedAt.UTC().Format(isoMillis),
		Statistics: jsonStatistics{
			WordCount:              report.WordCount,
			CharacterCount:         report.CharCount,
			CharacterCountNoSpaces: report.CharCountNoSpaces,
			SentenceCount:          report.SentenceCount,
			ParagraphCount:         report.ParagraphCount,
			LineCount:              report.LineCount,
			UniqueWords:            report.UniqueWords,
			ReadingTimeMinutes:     report.ReadingTimeMinutes,
			AverageWordLength:      report.AverageWordLength,
			LongestWord:            report.LongestWord,
		},
		Keywords:        keywords,
		DocumentPreview: preview,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// WriteCSV writes a Metric,Value table followed by a blank line and a
// Top Keywords,Frequency table.
func WriteCSV(w io.Writer, meta model.ExportMeta, report model.Report) error {
	rows := [][]string{
		{"Metric", "Value"},
		{"File Name", meta.FileName},
		{"File Size", FormatFileSize(meta.FileSize)},
		{"File Type", meta.FileType},
		{"Analysis Date", meta.AnalyzedAt.Format(csvDateFmt)},
		{"Word Count", strconv.Itoa(report.WordCount)},
		{"Character Count", strconv.Itoa(report.CharCount)},
		{"Character Count (No Spaces)", strconv.Itoa(report.CharCountNoSpaces)},
		{"Sentence Count", strconv.Itoa(report.SentenceCount)},
		{"Paragraph Count", strconv.Itoa(report.ParagraphCount)},
		{"Line Count", strconv.Itoa(report.LineCount)},
		{"Unique Words", strconv.Itoa(report.UniqueWords)},
		{"Reading Time (minutes)", strconv.Itoa(report.ReadingTimeMinutes)},
		{"Average Word Length", FormatNumber(report.AverageWordLength)},
		{"Longest Word", report.LongestWord},
		{""},
		{"Top Keywords", "Frequency"},
	}
	for _, kw := range report.Keywords {
		rows = append(rows, []string{kw.Word, strconv.Itoa(kw.Count)})
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// Write dispatches to WriteJSON or WriteCSV.
func Write(w io.Writer, format Format, meta model.ExportMeta, report model.Report, text string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, meta, report, text)
	case FormatCSV:
		return WriteCSV(w, meta, report)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// FileName returns the export file name for a document, e.g.
// analysis_notes.txt_1700000000000.json.
func FileName(docName string, format Format, at time.Time) string {
	return fmt.Sprintf("analysis_%s_%d.%s", docName, at.UnixMilli(), format)
}

// ToFile writes an export into dir and returns the written path.
func ToFile(dir string, format Format, meta model.ExportMeta, report model.Report, text string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, FileName(meta.FileName, format, meta.AnalyzedAt))

	tmpFile, err := os.CreateTemp(dir, "analysis-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := Write(writer, format, meta, report, text); err != nil {
		return "", err
	}
	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// Preview returns at most n characters of text and whether it was cut.
func Preview(text string, n int) (string, bool) {
	if n < 0 {
		return text, false
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i], true
		}
		count++
	}
	return text, false
}
