package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/textlens/internal/analysis"
	"github.com/verte-zerg/textlens/internal/export"
	"github.com/verte-zerg/textlens/internal/ingest"
	"github.com/verte-zerg/textlens/internal/model"
	"github.com/verte-zerg/textlens/internal/stats"
	"github.com/verte-zerg/textlens/internal/watch"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Print statistics and keywords for a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyzeCmd,
	}
	addAnalysisFlags(cmd)
	cmd.Flags().StringVar(&analyzeFormat, "format", defaultFormat, "output format: text, json or csv")
	cmd.Flags().StringVar(&analyzeOut, "out", "", "write a json/csv export file into this directory instead of stdout")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cmd, cfg.StopWordsPath)
	if err != nil {
		return err
	}
	format := strings.ToLower(strings.TrimSpace(analyzeFormat))
	if format != defaultFormat {
		if _, err := export.ParseFormat(format); err != nil {
			return fmt.Errorf("--format must be text, json or csv")
		}
	}
	if analyzeOut != "" && format == defaultFormat {
		return fmt.Errorf("--out requires --format json or csv")
	}

	doc, report, err := analyzeFile(cmd, engine, args[0], cfg.KeywordLimit)
	if err != nil {
		return err
	}
	at := time.Now()

	if format == defaultFormat {
		return stats.RenderReport(cmd.OutOrStdout(), doc, report, stats.RenderOptions{})
	}
	exportFormat := export.Format(format)
	meta := model.MetaFor(doc, at)
	if analyzeOut != "" {
		path, err := export.ToFile(analyzeOut, exportFormat, meta, report, doc.Text)
		if err != nil {
			return err
		}
		logInfof(cmd, "wrote %s\n", path)
		return nil
	}
	return export.Write(cmd.OutOrStdout(), exportFormat, meta, report, doc.Text)
}

func analyzeFile(cmd *cobra.Command, engine *analysis.Engine, path string, limit int) (model.Document, model.Report, error) {
	doc, err := ingest.Load(cmd.Context(), path)
	if err != nil {
		return model.Document{}, model.Report{}, err
	}
	if !doc.Extracted {
		logWarnf(cmd, "text extraction is not supported for %s; analyzing a placeholder\n", doc.MIMEType)
	}
	return doc, engine.Analyze(doc.Text, limit), nil
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-analyze a document whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchCmd,
	}
	addAnalysisFlags(cmd)
	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cmd, cfg.StopWordsPath)
	if err != nil {
		return err
	}

	w, err := watch.New(args[0], watch.WithErrorHandler(func(err error) {
		logWarnf(cmd, "watch error: %v\n", err)
	}))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			logWarnf(cmd, "failed to close watcher: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	runOnce := func() {
		doc, report, err := analyzeFile(cmd, engine, w.Path(), cfg.KeywordLimit)
		if err != nil {
			logErrorf(cmd, "%v\n", err)
			return
		}
		if err := printWatchReport(out, doc, report, time.Now()); err != nil {
			logErrorf(cmd, "failed to write report: %v\n", err)
		}
	}

	runOnce()
	logInfof(cmd, "watching %s (ctrl+c to stop)\n", w.Path())
	for ev := range w.Run(cmd.Context()) {
		logInfof(cmd, "%s %s\n", ev.Path, ev.Op)
		runOnce()
	}
	return nil
}

func printWatchReport(w io.Writer, doc model.Document, report model.Report, at time.Time) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", at.Format("2006-01-02 15:04:05")); err != nil {
		return err
	}
	if err := stats.RenderReport(w, doc, report, stats.RenderOptions{}); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, stats.Summary(report))
	return err
}
