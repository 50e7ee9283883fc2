// Package main provides the CLI entrypoint for textlens.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/textlens/internal/analysis"
	"github.com/verte-zerg/textlens/internal/config"
	"github.com/verte-zerg/textlens/internal/model"
	"github.com/verte-zerg/textlens/internal/viewer"
	"github.com/verte-zerg/textlens/internal/wordlist"
)

const (
	defaultKeywords  = analysis.DefaultKeywordLimit
	defaultPreview   = viewer.DefaultPreviewChars
	defaultExportDir = "."
	defaultFormat    = "text"
)

var (
	keywordLimit  int
	stopWordsPath string
	previewChars  int
	exportDir     string

	analyzeFormat string
	analyzeOut    string
)

var (
	warnColor  = color.New(color.FgYellow, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
	infoColor  = color.New(color.FgCyan)
)

func main() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		color.NoColor = true
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "textlens [file]",
		Short:         "Document text statistics and keyword extraction",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runViewCmd,
	}
	addViewFlags(rootCmd)

	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStopWordsCmd())

	return rootCmd
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&keywordLimit, "keywords", defaultKeywords, "number of keywords to report")
	cmd.Flags().StringVar(&stopWordsPath, "stop-words", "", "file with extra stop words, one per line")
}

func addViewFlags(cmd *cobra.Command) {
	addAnalysisFlags(cmd)
	cmd.Flags().IntVar(&previewChars, "preview-chars", defaultPreview, "characters shown in the preview tab")
	cmd.Flags().StringVar(&exportDir, "export-dir", defaultExportDir, "directory for JSON/CSV exports")
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open the terminal viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runViewCmd,
	}
	addViewFlags(cmd)
	return cmd
}

func runViewCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cmd, cfg.StopWordsPath)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the viewer needs a terminal (use: textlens analyze <file>)")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	m := viewer.NewModel(viewer.Options{Engine: engine, Config: cfg, Path: path})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the config file from the template unless it exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newStopWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stopwords",
		Short: "Print the effective stop-word list",
		Args:  cobra.NoArgs,
		RunE:  runStopWordsCmd,
	}
	cmd.Flags().StringVar(&stopWordsPath, "stop-words", "", "file with extra stop words, one per line")
	return cmd
}

func runStopWordsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cmd, cfg.StopWordsPath)
	if err != nil {
		return err
	}
	for _, word := range engine.StopWords() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), word); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// resolveConfig merges the config file into flag values; flags win.
func resolveConfig(cmd *cobra.Command) (model.AnalyzeConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.AnalyzeConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "keywords", &keywordLimit, fileCfg.Analysis.KeywordLimit)
	applyStringConfig(cmd, "stop-words", &stopWordsPath, fileCfg.Analysis.StopWords)
	applyIntConfig(cmd, "preview-chars", &previewChars, fileCfg.Analysis.PreviewChars)
	applyStringConfig(cmd, "export-dir", &exportDir, fileCfg.Export.Dir)

	cfg := model.AnalyzeConfig{
		KeywordLimit:  keywordLimit,
		StopWordsPath: strings.TrimSpace(stopWordsPath),
		PreviewChars:  previewChars,
		ExportDir:     exportDir,
	}
	if err := validateConfig(cmd, cfg); err != nil {
		return model.AnalyzeConfig{}, err
	}
	return cfg, nil
}

// validateConfig checks only the settings cmd registers a flag for.
func validateConfig(cmd *cobra.Command, cfg model.AnalyzeConfig) error {
	uses := func(name string) bool { return cmd.Flags().Lookup(name) != nil }
	if uses("keywords") && cfg.KeywordLimit < 0 {
		return fmt.Errorf("--keywords must be >= 0")
	}
	if uses("preview-chars") && cfg.PreviewChars <= 0 {
		return fmt.Errorf("--preview-chars must be > 0")
	}
	if uses("export-dir") && strings.TrimSpace(cfg.ExportDir) == "" {
		return fmt.Errorf("--export-dir must not be empty")
	}
	return nil
}

// newEngine builds an engine with extra stop words. An explicitly configured
// list must load; the default list in the config directory is optional.
func newEngine(cmd *cobra.Command, path string) (*analysis.Engine, error) {
	if path != "" {
		words, err := wordlist.LoadStopWords(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load stop words from %s: %w", path, err)
		}
		return analysis.NewEngine(analysis.WithStopWords(words...)), nil
	}

	defaultPath := config.DefaultStopWordsPath()
	words, err := wordlist.LoadStopWords(defaultPath)
	switch {
	case err == nil:
		return analysis.NewEngine(analysis.WithStopWords(words...)), nil
	case errors.Is(err, fs.ErrNotExist):
		return analysis.NewEngine(), nil
	default:
		logWarnf(cmd, "ignoring stop words in %s: %v\n", defaultPath, err)
		return analysis.NewEngine(), nil
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# textlens configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# keyword-limit = %d       # Number of keywords to report
# stop-words = ""          # File with extra stop words, one per line
# preview-chars = %d     # Characters shown in the preview tab

[export]
# dir = %q               # Directory for JSON/CSV exports
`,
		defaultKeywords,
		defaultPreview,
		defaultExportDir,
	)
}

func logWarnf(cmd *cobra.Command, format string, args ...any) {
	logErrf(cmd, warnColor.Sprint("warning: ")+format, args...)
}

func logErrorf(cmd *cobra.Command, format string, args ...any) {
	logErrf(cmd, errorColor.Sprint("error: ")+format, args...)
}

func logInfof(cmd *cobra.Command, format string, args ...any) {
	logErrf(cmd, infoColor.Sprint("info: ")+format, args...)
}

func logErrf(cmd *cobra.Command, format string, args ...any) {
	if _, err := fmt.Fprintf(cmd.ErrOrStderr(), format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
