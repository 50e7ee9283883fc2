package viewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/textlens/internal/export"
	"github.com/verte-zerg/textlens/internal/model"
	"github.com/verte-zerg/textlens/internal/stats"
)

const (
	noDocumentText = "No document loaded. Press o to open a file."
	noKeywordsText = "No keywords found"

	keywordBarWidth = 24
	keywordBarChar  = "█"
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	info := padLines(m.renderDocumentSummary(), m.width)
	return tabs + "\n" + info
}

func (m *Model) renderDocumentSummary() string {
	var summary string
	switch {
	case m.isLoading():
		summary = "Document: analyzing..."
	case m.doc == nil:
		summary = "Document: none"
	default:
		summary = fmt.Sprintf("Document: %s  %s  %s",
			m.doc.Name, export.FormatFileSize(m.doc.Size), stats.FileTypeLabel(m.doc.MIMEType))
	}
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Open: o  Reanalyze: r  Export: j/c  Clear: x  Quit: q"
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.status == "" {
		return m.renderHelp()
	}
	status := truncateLine(m.status, m.width)
	if m.statusErr {
		return m.renderHelp() + "\n" + errorStyle.Render(status)
	}
	return m.renderHelp() + "\n" + headerStyle.Render(status)
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabKeywords {
		switch {
		case m.doc == nil:
			return fitLines(noDocumentText, m.width, height)
		case len(m.report.Keywords) == 0:
			return fitLines(noKeywordsText, m.width, height)
		default:
			return fitLines(tableMutedStyle.Render(m.keywords.View()), m.width, height)
		}
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderAlert() string {
	body := []string{
		errorStyle.Bold(true).Render("Analysis failed"),
		m.alert,
		headerStyle.Render("Press enter or esc to dismiss, then open another file with o"),
	}
	box := alertStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderPrompt() string {
	body := []string{
		cardValueStyle.Render("Open Document"),
		m.prompt.View(),
		headerStyle.Render("Text files are analyzed; images and PDFs get a placeholder."),
		headerStyle.Render("Enter to analyze / Esc to cancel"),
	}
	if m.promptError != "" {
		body = append(body, errorStyle.Render(m.promptError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderOverview(doc model.Document, report model.Report, at time.Time, width int) string {
	lines := []string{
		headerStyle.Render(fmt.Sprintf("File: %s", doc.Name)),
		headerStyle.Render(fmt.Sprintf("Size: %s  Type: %s", export.FormatFileSize(doc.Size), stats.FileTypeLabel(doc.MIMEType))),
	}
	if !at.IsZero() {
		lines = append(lines, headerStyle.Render(fmt.Sprintf("Analyzed: %s", at.Format("2006-01-02 15:04:05"))))
	}
	if !doc.Extracted {
		lines = append(lines, headerStyle.Render("Text extraction is not available for this file type."))
	}
	return strings.Join(lines, "\n") + "\n\n" + renderSummaryCards(report, width)
}

func renderSummaryCards(report model.Report, width int) string {
	rows := stats.MetricRows(report)
	cards := make([]string, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, metricCard(row[0], row[1]))
	}
	perRow := 3
	switch {
	case width < 80:
		return strings.Join(cards, "\n")
	case width >= 120:
		perRow = 5
	}
	grid := make([]string, 0, len(cards)/perRow+1)
	for start := 0; start < len(cards); start += perRow {
		end := minInt(start+perRow, len(cards))
		grid = append(grid, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, grid...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderPreview(text string, limit, width int) string {
	if text == "" {
		return headerStyle.Render("Document is empty.")
	}
	preview, truncated := export.Preview(text, limit)
	if !truncated {
		return wrapText(preview, width)
	}
	return wrapText(preview+"...", width) + "\n\n" + headerStyle.Render(TruncatedNotice)
}

func buildKeywordTable(keywords []model.Keyword, width, height int) table.Model {
	t := table.New(
		table.WithColumns(keywordColumns()),
		table.WithRows(keywordRows(keywords)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(keywordTableStyles())
	return t
}

func keywordColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Keyword", Width: 20},
		{Title: "Count", Width: 8},
		{Title: "Frequency", Width: keywordBarWidth},
	}
}

func keywordRows(keywords []model.Keyword) []table.Row {
	rows := make([]table.Row, 0, len(keywords))
	if len(keywords) == 0 {
		return rows
	}
	top := keywords[0].Count
	for i, kw := range keywords {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			kw.Word,
			stats.FormatCount(kw.Count),
			keywordBar(kw.Count, top),
		})
	}
	return rows
}

func keywordBar(count, top int) string {
	if top <= 0 || count <= 0 {
		return ""
	}
	n := count * keywordBarWidth / top
	if n < 1 {
		n = 1
	}
	return strings.Repeat(keywordBarChar, n)
}

func (m *Model) setKeywordTableSize(width, height int) {
	if width <= 0 {
		return
	}
	m.keywords.SetWidth(width)
	m.keywords.SetHeight(maxInt(1, height))
}

func keywordTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
