// Package viewer provides the Bubble Tea document analysis interface.
package viewer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/textlens/internal/analysis"
	"github.com/verte-zerg/textlens/internal/export"
	"github.com/verte-zerg/textlens/internal/ingest"
	"github.com/verte-zerg/textlens/internal/model"
)

const (
	tabOverview = iota
	tabKeywords
	tabPreview
)

const (
	// DefaultPreviewChars is the number of characters shown in the preview tab.
	DefaultPreviewChars = 2000
	// TruncatedNotice follows a preview that does not show the whole document.
	TruncatedNotice = "[Preview truncated - Full document is longer]"

	alertPrefix = "Error analyzing document: "
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
	alertStyle = modalStyle.BorderForeground(lipgloss.Color("#FF4D4F"))
)

// LoadFunc reads a document from disk.
type LoadFunc func(ctx context.Context, path string) (model.Document, error)

// Options configures a viewer Model.
type Options struct {
	Engine *analysis.Engine
	Config model.AnalyzeConfig
	// Path is opened when the program starts; empty starts with no document.
	Path string
	Load LoadFunc
	Now  func() time.Time
}

type loadedMsg struct {
	seq    int
	doc    model.Document
	report model.Report
	at     time.Time
}

type loadFailedMsg struct {
	seq int
	err error
}

type exportedMsg struct {
	path string
}

type exportFailedMsg struct {
	err error
}

// Model implements the Bubble Tea analysis UI.
type Model struct {
	engine *analysis.Engine
	cfg    model.AnalyzeConfig
	load   LoadFunc
	now    func() time.Time

	initialPath string

	doc        *model.Document
	report     model.Report
	analyzedAt time.Time

	// seq identifies the newest load; results of older loads are dropped.
	seq int
	// inFlight is the seq of the read still running, zero when idle. It
	// stays set after a clear until that read reports back.
	inFlight int
	cancel   context.CancelFunc

	alert     string
	status    string
	statusErr bool

	tabs      []string
	activeTab int
	viewports []viewport.Model
	keywords  table.Model

	width  int
	height int

	promptMode  bool
	prompt      textinput.Model
	promptError string
}

// NewModel constructs a viewer model.
func NewModel(opts Options) *Model {
	m := &Model{
		engine:      opts.Engine,
		cfg:         opts.Config,
		load:        opts.Load,
		now:         opts.Now,
		initialPath: strings.TrimSpace(opts.Path),
		tabs:        []string{"Overview", "Keywords", "Preview"},
	}
	if m.engine == nil {
		m.engine = analysis.NewEngine()
	}
	if m.load == nil {
		m.load = ingest.Load
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.initPrompt()
	m.initViewports()
	m.keywords = buildKeywordTable(nil, 0, 1)
	m.renderTabContents()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.initialPath == "" {
		return nil
	}
	return m.Open(m.initialPath)
}

// Open starts loading and analysing path. It returns nil while another
// read is still running, including one whose result was discarded.
func (m *Model) Open(path string) tea.Cmd {
	if m.inFlight != 0 {
		m.setStatus("Waiting for the previous analysis to finish", true)
		return nil
	}
	m.seq++
	m.inFlight = m.seq
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.setStatus(fmt.Sprintf("Analyzing %s...", path), false)

	seq := m.seq
	load := m.load
	engine := m.engine
	limit := m.keywordLimit()
	now := m.now
	return func() tea.Msg {
		doc, err := load(ctx, path)
		if err != nil {
			return loadFailedMsg{seq: seq, err: err}
		}
		report := engine.Analyze(doc.Text, limit)
		return loadedMsg{seq: seq, doc: doc, report: report, at: now()}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case loadedMsg:
		m.finishRead(msg.seq)
		if msg.seq != m.seq {
			return m, nil
		}
		doc := msg.doc
		m.doc = &doc
		m.report = msg.report
		m.analyzedAt = msg.at
		m.setStatus(fmt.Sprintf("Analyzed %s", doc.Name), false)
		m.renderTabContents()
		m.scrollToTop()
		return m, nil
	case loadFailedMsg:
		m.finishRead(msg.seq)
		if msg.seq != m.seq {
			return m, nil
		}
		m.reset()
		m.alert = alertPrefix + msg.err.Error()
		return m, nil
	case exportedMsg:
		m.setStatus(fmt.Sprintf("Exported to %s", msg.path), false)
		return m, nil
	case exportFailedMsg:
		m.setStatus(msg.err.Error(), true)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.alert != "" {
			return m.updateAlert(msg)
		}
		if m.promptMode {
			return m.updatePrompt(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabKeywords {
			m.keywords.Focus()
		} else {
			m.keywords.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "o":
			return m.startPrompt()
		case "r":
			if m.doc == nil {
				m.setStatus("No document loaded", true)
				return m, nil
			}
			return m, m.Open(m.doc.Path)
		case "j":
			return m, m.exportCmd(export.FormatJSON)
		case "c":
			return m, m.exportCmd(export.FormatCSV)
		case "x":
			m.reset()
			m.setStatus("Cleared", false)
			return m, nil
		case "g", "home":
			if m.activeTab == tabKeywords {
				m.keywords.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabKeywords {
				m.keywords.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabKeywords {
				var cmd tea.Cmd
				m.keywords, cmd = m.keywords.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.alert != "" {
		return fitLines(m.renderAlert(), m.width, m.height)
	}
	if m.promptMode {
		return fitLines(m.renderPrompt(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initPrompt() {
	input := textinput.New()
	input.Prompt = "File: "
	input.Placeholder = "path/to/document.txt"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	m.prompt = input
}

func (m *Model) keywordLimit() int {
	if m.cfg.KeywordLimit < 0 {
		return analysis.DefaultKeywordLimit
	}
	return m.cfg.KeywordLimit
}

func (m *Model) previewChars() int {
	if m.cfg.PreviewChars <= 0 {
		return DefaultPreviewChars
	}
	return m.cfg.PreviewChars
}

func (m *Model) exportDir() string {
	if m.cfg.ExportDir == "" {
		return "."
	}
	return m.cfg.ExportDir
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
	m.updateLayout()
}

// isLoading reports whether the newest read is still running.
func (m *Model) isLoading() bool {
	return m.inFlight != 0 && m.inFlight == m.seq
}

func (m *Model) finishRead(seq int) {
	if seq != m.inFlight {
		return
	}
	m.inFlight = 0
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// reset drops the current document and report. A running read is
// cancelled and its result ignored.
func (m *Model) reset() {
	if m.cancel != nil {
		m.cancel()
	}
	m.seq++
	m.doc = nil
	m.report = model.Report{}
	m.analyzedAt = time.Time{}
	m.status = ""
	m.statusErr = false
	m.renderTabContents()
	m.scrollToTop()
}

func (m *Model) scrollToTop() {
	m.viewports[tabOverview].GotoTop()
	m.viewports[tabPreview].GotoTop()
}

func (m *Model) exportCmd(format export.Format) tea.Cmd {
	if m.doc == nil {
		m.setStatus("No document loaded", true)
		return nil
	}
	dir := m.exportDir()
	meta := model.MetaFor(*m.doc, m.now())
	report := m.report
	text := m.doc.Text
	return func() tea.Msg {
		path, err := export.ToFile(dir, format, meta, report, text)
		if err != nil {
			return exportFailedMsg{err: err}
		}
		return exportedMsg{path: path}
	}
}

func (m *Model) updateAlert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.alert = ""
		return m, nil
	}
	return m, nil
}

func (m *Model) startPrompt() (tea.Model, tea.Cmd) {
	m.promptMode = true
	m.promptError = ""
	if m.doc != nil {
		m.prompt.SetValue(m.doc.Path)
	} else {
		m.prompt.SetValue("")
	}
	m.prompt.CursorEnd()
	return m, m.prompt.Focus()
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.promptMode = false
		m.promptError = ""
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.prompt.Value())
		if path == "" {
			m.promptError = "enter a file path"
			return m, nil
		}
		if m.inFlight != 0 {
			m.promptError = "an analysis is already running"
			return m, nil
		}
		m.promptMode = false
		m.promptError = ""
		m.prompt.Blur()
		return m, m.Open(path)
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.status != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.setKeywordTableSize(m.width, bodyHeight)
	promptWidth := lipgloss.Width(m.prompt.Prompt)
	m.prompt.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabKeywords {
		m.keywords.Focus()
	} else {
		m.keywords.Blur()
	}
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.keywords.SetRows(keywordRows(m.report.Keywords))
	m.setKeywordTableSize(width, bodyHeight)
	if m.doc == nil {
		m.viewports[tabOverview].SetContent(noDocumentText)
		m.viewports[tabPreview].SetContent(noDocumentText)
		return
	}
	m.viewports[tabOverview].SetContent(renderOverview(*m.doc, m.report, m.analyzedAt, width))
	m.viewports[tabPreview].SetContent(renderPreview(m.doc.Text, m.previewChars(), width))
}
