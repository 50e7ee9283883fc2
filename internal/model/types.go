// Package model defines shared data structures.
package model

import "time"

// Keyword is a content word and the number of times it occurs.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Report holds the statistics computed for one document text.
type Report struct {
	WordCount          int
	CharCount          int
	CharCountNoSpaces  int
	SentenceCount      int
	ParagraphCount     int
	LineCount          int
	UniqueWords        int
	ReadingTimeMinutes int
	AverageWordLength  float64
	LongestWord        string
	Keywords           []Keyword
}

// Document is a file read from disk together with the text handed to analysis.
type Document struct {
	Name     string
	Path     string
	Size     int64
	MIMEType string
	ModTime  time.Time
	Text     string
	// Extracted is false when Text is a placeholder for an unsupported format.
	Extracted bool
}

// AnalyzeConfig defines analysis settings.
type AnalyzeConfig struct {
	KeywordLimit  int
	StopWordsPath string
	PreviewChars  int
	ExportDir     string
}

// ExportMeta describes the file an exported report belongs to.
type ExportMeta struct {
	FileName   string
	FileSize   int64
	FileType   string
	AnalyzedAt time.Time
}

// MetaFor builds export metadata for a document analysed at the given time.
func MetaFor(doc Document, at time.Time) ExportMeta {
	return ExportMeta{
		FileName:   doc.Name,
		FileSize:   doc.Size,
		FileType:   doc.MIMEType,
		AnalyzedAt: at,
	}
}
