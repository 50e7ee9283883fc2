package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/textlens/internal/analysis"
	"github.com/verte-zerg/textlens/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDoc(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func TestAnalyzeText(t *testing.T) {
	path := writeDoc(t, "Hello world. Hello again!")
	out, _, err := runCLI(t, "analyze", path)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"notes.txt (25 Bytes, text/plain)", "Words", "Top Keywords", "hello"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAnalyzeJSON(t *testing.T) {
	path := writeDoc(t, "Hello world. Hello again!")
	out, _, err := runCLI(t, "analyze", path, "--format", "json", "--keywords", "1")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var doc struct {
		FileName   string `json:"fileName"`
		Statistics struct {
			WordCount int `json:"wordCount"`
		} `json:"statistics"`
		Keywords []struct {
			Word  string `json:"word"`
			Count int    `json:"count"`
		} `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if doc.FileName != "notes.txt" || doc.Statistics.WordCount != 4 {
		t.Fatalf("unexpected export: %+v", doc)
	}
	if len(doc.Keywords) != 1 || doc.Keywords[0].Word != "hello" || doc.Keywords[0].Count != 2 {
		t.Fatalf("unexpected keywords: %+v", doc.Keywords)
	}
}

func TestAnalyzeCSVToDirectory(t *testing.T) {
	path := writeDoc(t, "Hello world. Hello again!")
	outDir := t.TempDir()
	out, stderr, err := runCLI(t, "analyze", path, "--format", "csv", "--out", outDir)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no stdout, got %q", out)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one export file, got %v (%v)", entries, err)
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "analysis_notes.txt_") || !strings.HasSuffix(name, ".csv") {
		t.Fatalf("unexpected export name %q", name)
	}
	if !strings.Contains(stderr, name) {
		t.Fatalf("expected export path in log, got %q", stderr)
	}
}

func TestAnalyzeRejectsBadFlags(t *testing.T) {
	path := writeDoc(t, "text")
	if _, _, err := runCLI(t, "analyze", path, "--format", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, _, err := runCLI(t, "analyze", path, "--out", t.TempDir()); err == nil {
		t.Fatalf("expected error for --out with text format")
	}
	if _, _, err := runCLI(t, "analyze", path, "--keywords", "-1"); err == nil {
		t.Fatalf("expected error for negative keyword limit")
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, _, err := runCLI(t, "analyze", filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil || !strings.Contains(err.Error(), "error reading file") {
		t.Fatalf("expected read failure, got %v", err)
	}
}

func TestStopWordsCommand(t *testing.T) {
	extra := filepath.Join(t.TempDir(), "extra.txt")
	if err := os.WriteFile(extra, []byte("gopher\n"), 0o644); err != nil {
		t.Fatalf("write stop words: %v", err)
	}
	out, _, err := runCLI(t, "stopwords", "--stop-words", extra)
	if err != nil {
		t.Fatalf("stopwords: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(analysis.DefaultStopWords())+1 {
		t.Fatalf("expected %d words, got %d", len(analysis.DefaultStopWords())+1, len(lines))
	}
	if !strings.Contains(out, "gopher\n") {
		t.Fatalf("expected extra stop word in output")
	}
}

func TestConfigFileAppliesUnlessFlagSet(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("[analysis]\nkeyword-limit = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := newRootCmd()
	cmd, _, err := root.Find([]string{"analyze"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.KeywordLimit != 1 {
		t.Fatalf("expected config keyword limit 1, got %d", cfg.KeywordLimit)
	}

	if err := cmd.Flags().Set("keywords", "7"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg, err = resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.KeywordLimit != 7 {
		t.Fatalf("expected flag to override config, got %d", cfg.KeywordLimit)
	}
}

func TestViewSettingsOnlyValidatedForViewer(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data := "[analysis]\npreview-chars = 0\n\n[export]\ndir = \"\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	doc := writeDoc(t, "Hello world. Hello again!")

	tests := []struct {
		args    []string
		wantErr bool
	}{
		{args: []string{"analyze", doc}},
		{args: []string{"watch", doc}},
		{args: []string{"stopwords"}},
		{args: []string{"view"}, wantErr: true},
	}
	for _, tt := range tests {
		cmd, _, err := newRootCmd().Find(tt.args)
		if err != nil {
			t.Fatalf("find %v: %v", tt.args, err)
		}
		_, err = resolveConfig(cmd)
		if tt.wantErr {
			if err == nil || !strings.Contains(err.Error(), "--preview-chars") {
				t.Fatalf("%s: expected preview-chars = 0 to be rejected, got %v", cmd.Name(), err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: expected viewer settings to be ignored, got %v", cmd.Name(), err)
		}
	}

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"analyze", doc})
	if err := root.Execute(); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(stdout.String(), "Top Keywords") {
		t.Fatalf("expected report output:\n%s", stdout.String())
	}
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textlens", "config.toml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Analysis.KeywordLimit != nil || cfg.Export.Dir != nil {
		t.Fatalf("expected all template values to be commented out, got %+v", cfg)
	}
	if err := os.WriteFile(path, []byte("custom"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "custom" {
		t.Fatalf("expected existing config to be kept, got %q (%v)", data, err)
	}
}
