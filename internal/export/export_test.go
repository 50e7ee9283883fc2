package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/textlens/internal/model"
)

func sampleReport() model.Report {
	return model.Report{
		WordCount:          4,
		CharCount:          25,
		CharCountNoSpaces:  22,
		SentenceCount:      2,
		ParagraphCount:     1,
		LineCount:          1,
		UniqueWords:        3,
		ReadingTimeMinutes: 1,
		AverageWordLength:  5.5,
		LongestWord:        "world.",
		Keywords: []model.Keyword{
			{Word: "hello", Count: 2},
			{Word: "world", Count: 1},
		},
	}
}

func sampleMeta() model.ExportMeta {
	return model.ExportMeta{
		FileName:   "notes.txt",
		FileSize:   1536,
		FileType:   "text/plain",
		AnalyzedAt: time.Date(2024, 3, 5, 14, 7, 9, 123_000_000, time.UTC),
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1_234_567, "1.18 MB"},
		{5 * 1024 * 1024 * 1024, "5 GB"},
		{3 * 1024 * 1024 * 1024 * 1024, "3072 GB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.in); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	text := strings.Repeat("x", 600)
	if err := WriteJSON(&buf, sampleMeta(), sampleReport(), text); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded struct {
		FileName     string `json:"fileName"`
		FileSize     int64  `json:"fileSize"`
		FileType     string `json:"fileType"`
		AnalysisDate string `json:"analysisDate"`
		Statistics   map[string]any
		Keywords     []model.Keyword `json:"keywords"`
		Preview      string          `json:"documentPreview"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded.FileName != "notes.txt" || decoded.FileSize != 1536 || decoded.FileType != "text/plain" {
		t.Fatalf("unexpected metadata: %+v", decoded)
	}
	if decoded.AnalysisDate != "2024-03-05T14:07:09.123Z" {
		t.Fatalf("unexpected analysis date %q", decoded.AnalysisDate)
	}
	for _, key := range []string{
		"wordCount", "characterCount", "characterCountNoSpaces", "sentenceCount",
		"paragraphCount", "lineCount", "uniqueWords", "readingTimeMinutes",
		"averageWordLength", "longestWord",
	} {
		if _, ok := decoded.Statistics[key]; !ok {
			t.Fatalf("missing statistics key %q", key)
		}
	}
	if decoded.Statistics["averageWordLength"] != 5.5 {
		t.Fatalf("unexpected average: %v", decoded.Statistics["averageWordLength"])
	}
	if len(decoded.Keywords) != 2 || decoded.Keywords[0].Word != "hello" {
		t.Fatalf("unexpected keywords: %+v", decoded.Keywords)
	}
	if len(decoded.Preview) != JSONPreviewChars {
		t.Fatalf("expected %d preview chars, got %d", JSONPreviewChars, len(decoded.Preview))
	}
	if !strings.Contains(buf.String(), "\n  \"statistics\": {\n    \"wordCount\": 4,") {
		t.Fatalf("expected two-space indentation, got:\n%s", buf.String())
	}
}

func TestWriteJSONEmptyKeywords(t *testing.T) {
	report := sampleReport()
	report.Keywords = nil
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleMeta(), report, ""); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"keywords": []`) {
		t.Fatalf("expected empty keyword array, got:\n%s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	meta := sampleMeta()
	if err := WriteCSV(&buf, meta, sampleReport()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	expected := []string{
		"Metric,Value",
		"File Name,notes.txt",
		"File Size,1.5 KB",
		"File Type,text/plain",
		`Analysis Date,"3/5/2024, 2:07:09 PM"`,
		"Word Count,4",
		"Character Count,25",
		"Character Count (No Spaces),22",
		"Sentence Count,2",
		"Paragraph Count,1",
		"Line Count,1",
		"Unique Words,3",
		"Reading Time (minutes),1",
		"Average Word Length,5.5",
		"Longest Word,world.",
		"",
		"Top Keywords,Frequency",
		"hello,2",
		"world,1",
	}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(expected), len(lines), buf.String())
	}
	for i, want := range expected {
		if lines[i] != want {
			t.Fatalf("line %d: expected %q, got %q", i, want, lines[i])
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" JSON "); err != nil || f != FormatJSON {
		t.Fatalf("expected json, got %q (%v)", f, err)
	}
	if f, err := ParseFormat("csv"); err != nil || f != FormatCSV {
		t.Fatalf("expected csv, got %q (%v)", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	meta := sampleMeta()
	path, err := ToFile(dir, FormatCSV, meta, sampleReport(), "")
	if err != nil {
		t.Fatalf("ToFile failed: %v", err)
	}
	wantName := "analysis_notes.txt_1709647629123.csv"
	if filepath.Base(path) != wantName {
		t.Fatalf("expected %s, got %s", wantName, filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "Metric,Value\n") {
		t.Fatalf("unexpected export contents: %s", data)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the export file, found %d entries", len(entries))
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		text  string
		n     int
		want  string
		trunc bool
	}{
		{"hello", 10, "hello", false},
		{"hello", 5, "hello", false},
		{"héllo", 2, "hé", true},
		{"hello", 0, "", true},
		{"", 0, "", false},
	}
	for _, tt := range tests {
		got, trunc := Preview(tt.text, tt.n)
		if got != tt.want || trunc != tt.trunc {
			t.Errorf("Preview(%q, %d) = %q, %v; want %q, %v", tt.text, tt.n, got, trunc, tt.want, tt.trunc)
		}
	}
}
