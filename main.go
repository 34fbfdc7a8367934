//go:build !gui

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"bookxray/internal/analyze"
	"bookxray/internal/segment"
	"bookxray/internal/session"
	"bookxray/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AFFF"))

	authorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))
)

type phase int

const (
	phaseSelect phase = iota
	phaseAnalyzing
	phaseReport
)

type model struct {
	sess  *session.Session
	store *state.Store
	hash  string

	provider analyze.Provider
	wpm      int

	phase    phase
	cursor   int // chapter list cursor
	errMsg   string
	quitting bool

	spinner  spinner.Model
	progress progress.Model
	viewport viewport.Model
	ready    bool

	analysisCh chan tea.Msg
	done, total int

	width  int
	height int
}

type analysisProgressMsg struct {
	done  int
	total int
}

type analysisDoneMsg struct {
	mode   analyze.Mode
	report string
}

func newModel(sess *session.Session, store *state.Store, hash string, provider analyze.Provider, wpm int) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		sess:     sess,
		store:    store,
		hash:     hash,
		provider: provider,
		wpm:      wpm,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-4, 60)
		headerHeight := 4
		m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
		if _, text, ok := m.sess.Report(); ok {
			m.viewport.SetContent(text)
		}
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisProgressMsg:
		m.done, m.total = msg.done, msg.total
		return m, m.waitForAnalysis()

	case analysisDoneMsg:
		m.sess.SetReport(string(msg.mode), msg.report)
		m.phase = phaseReport
		if m.ready {
			m.viewport.SetContent(msg.report)
			m.viewport.GotoTop()
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.phase == phaseAnalyzing {
		// No cancellation mid-batch; only quit.
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.phase == phaseReport {
		switch msg.String() {
		case "esc", "backspace":
			m.phase = phaseSelect
			return m, nil
		case "q", "Q", "ctrl+c":
			return m.quit()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	titles := m.sess.ChapterTitles()

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(titles)-1 {
			m.cursor++
		}

	case "s":
		// Selection runs from the chapter under the cursor.
		if m.cursor < len(titles) {
			_, endTitle := m.selectionChapters()
			if err := m.sess.SetChapterRange(titles[m.cursor], endTitle); err != nil {
				m.errMsg = err.Error()
			} else {
				m.errMsg = ""
			}
		}
	case "e":
		// Selection runs to the chapter under the cursor.
		if m.cursor < len(titles) {
			startTitle, _ := m.selectionChapters()
			if err := m.sess.SetChapterRange(startTitle, titles[m.cursor]); err != nil {
				m.errMsg = err.Error()
			} else {
				m.errMsg = ""
			}
		}

	case "left":
		start, end := m.sess.Selection()
		m.sess.SetPageRange(start-1, end)
	case "right":
		start, end := m.sess.Selection()
		m.sess.SetPageRange(start+1, end)
	case "[":
		start, end := m.sess.Selection()
		m.sess.SetPageRange(start, end-1)
	case "]":
		start, end := m.sess.Selection()
		m.sess.SetPageRange(start, end+1)

	case "+", "=":
		m.wpm = state.ClampWPM(m.wpm + 50)
	case "-":
		m.wpm = state.ClampWPM(m.wpm - 50)

	case "r":
		return m.startAnalysis(analyze.Recap)
	case "x":
		return m.startAnalysis(analyze.XRay)

	case "v":
		if _, _, ok := m.sess.Report(); ok {
			m.phase = phaseReport
		}

	case "q", "Q", "ctrl+c":
		return m.quit()
	}

	return m, nil
}

// selectionChapters returns the titles of the chapters containing the
// selection's first and last pages.
func (m model) selectionChapters() (start, end string) {
	pages := m.sess.SelectedPages()
	if len(pages) == 0 {
		return "", ""
	}
	return pages[0].Chapter, pages[len(pages)-1].Chapter
}

func (m model) startAnalysis(mode analyze.Mode) (tea.Model, tea.Cmd) {
	if m.sess.Empty() {
		return m, nil
	}
	if kind, _, ok := m.sess.Report(); ok && kind == string(mode) {
		m.phase = phaseReport
		return m, nil
	}

	m.phase = phaseAnalyzing
	m.done, m.total = 0, 0
	m.analysisCh = make(chan tea.Msg, 8)

	pages := m.sess.SelectedPages()
	book := m.sess.Meta.Title
	author := m.sess.Meta.Author
	pct := m.sess.Progress()
	ch := m.analysisCh
	provider := m.provider

	go func() {
		a := &analyze.Analyzer{
			Provider: provider,
			Progress: func(done, total int) {
				ch <- analysisProgressMsg{done: done, total: total}
			},
		}
		report := a.Run(context.Background(), mode, pages, book, author, pct)
		ch <- analysisDoneMsg{mode: mode, report: report}
	}()

	return m, tea.Batch(m.spinner.Tick, m.waitForAnalysis())
}

func (m model) waitForAnalysis() tea.Cmd {
	ch := m.analysisCh
	return func() tea.Msg {
		return <-ch
	}
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.store != nil && m.hash != "" && !m.sess.Empty() {
		start, end := m.sess.Selection()
		m.store.SetSelection(m.hash, state.PageRange{Start: start, End: end})
		m.store.SetWPM(m.wpm)
	}
	return m, tea.Quit
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.sess.Empty() {
		return errorStyle.Render("\n  No readable content in this book.\n")
	}

	switch m.phase {
	case phaseAnalyzing:
		return m.analyzingView()
	case phaseReport:
		return m.reportView()
	default:
		return m.selectView()
	}
}

func (m model) selectView() string {
	var sb strings.Builder

	sb.WriteString("  " + titleStyle.Render(m.sess.Meta.Title))
	sb.WriteString("  " + authorStyle.Render("by "+m.sess.Meta.Author))
	sb.WriteString("\n")

	start, end := m.sess.Selection()
	sb.WriteString(statusStyle.Render(statsLine(m.sess, m.wpm)))
	sb.WriteString("\n\n")

	titles := m.sess.ChapterTitles()
	startTitle, endTitle := m.selectionChapters()
	visible := m.height - 10
	if visible < 3 {
		visible = 3
	}
	top := 0
	if m.cursor >= visible {
		top = m.cursor - visible + 1
	}
	for i := top; i < len(titles) && i < top+visible; i++ {
		line := "   " + titles[i]
		if titles[i] == startTitle || titles[i] == endTitle {
			line = selectedStyle.Render(" ▎ " + titles[i])
		}
		if i == m.cursor {
			line = cursorStyle.Render(" > " + titles[i])
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(fmt.Sprintf("Selection: pages %d-%d (%s at %d WPM)",
		start, end, session.ReadingTime(m.sess.SelectedWords(), m.wpm), m.wpm)))
	sb.WriteString("\n")
	text := joinPages(m.sess.SelectedPages())
	sb.WriteString(statusStyle.Render(preview(text, 200)))
	sb.WriteString("\n")
	if tail := tailPreview(text, 200); tail != "" {
		sb.WriteString(statusStyle.Render(tail))
		sb.WriteString("\n")
	}

	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render("  " + m.errMsg + "\n"))
	}

	sb.WriteString(controlsStyle.Render("  ↑/↓: chapters  S/E: range by chapter  ←/→ [/]: pages  +/-: WPM  R: recap  X: x-ray  V: last report  Q: quit"))
	return sb.String()
}

func (m model) analyzingView() string {
	var sb strings.Builder
	sb.WriteString("\n  " + m.spinner.View() + " Analyzing...\n\n")
	if m.total > 0 {
		sb.WriteString("  " + m.progress.ViewAs(float64(m.done)/float64(m.total)) + "\n")
		sb.WriteString(statusStyle.Render(fmt.Sprintf("Chapter %d of %d", m.done, m.total)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m model) reportView() string {
	kind, text, ok := m.sess.Report()
	if !ok {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(statusStyle.Render(kind + " — " + m.sess.Meta.Title))
	sb.WriteString("\n")
	if m.ready {
		sb.WriteString(m.viewport.View())
	} else {
		sb.WriteString(text)
	}
	sb.WriteString("\n")
	sb.WriteString(controlsStyle.Render("  ↑/↓: scroll  ESC: back  Q: quit"))
	return sb.String()
}

// statsLine summarizes the whole book: pages, chapters, words, reading time.
func statsLine(s *session.Session, wpm int) string {
	return fmt.Sprintf("%d pages | %d chapters | %d words | %s at %d WPM",
		s.PageCount(), len(s.Chapters), s.TotalWords(),
		session.ReadingTime(s.TotalWords(), wpm), wpm)
}

// preview returns the first max runes of text, with an ellipsis when
// truncated.
func preview(text string, max int) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max]) + "…"
}

// tailPreview returns the last max runes of text, or "" when the text is
// short enough that preview already showed it all.
func tailPreview(text string, max int) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= max {
		return ""
	}
	return "…" + string(r[len(r)-max:])
}

func joinPages(pages []segment.Page) string {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Content)
	}
	return sb.String()
}

func main() {
	godotenv.Load()

	wpm := flag.Int("w", 0, "Words per minute (default: saved setting or 250)")
	apiKey := flag.String("key", "", "Analysis API key (default: BOOKXRAY_API_KEY or saved setting)")
	useMock := flag.Bool("mock", false, "Use the offline mock analysis provider")
	freshStart := flag.Bool("fresh", false, "Ignore saved page selection")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Bookxray - Book Analysis Tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  bookxray [options] <file.epub|file.md>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bookxray book.epub          Analyze an EPUB\n")
		fmt.Fprintf(os.Stderr, "  bookxray -w 400 book.epub   Reading time at 400 WPM\n")
		fmt.Fprintf(os.Stderr, "  bookxray -mock book.epub    Offline deterministic analysis\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓      Move between chapters\n")
		fmt.Fprintf(os.Stderr, "  S/E      Start/end selection at the highlighted chapter\n")
		fmt.Fprintf(os.Stderr, "  ←/→ [/]  Nudge start/end page\n")
		fmt.Fprintf(os.Stderr, "  R        Story recap\n")
		fmt.Fprintf(os.Stderr, "  X        X-Ray analysis\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("bookxray %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: No input provided. Provide an EPUB or Markdown file.")
		fmt.Fprintln(os.Stderr, "Try: bookxray -h")
		os.Exit(1)
	}
	filename := flag.Arg(0)

	store, storeErr := state.NewStore()
	if storeErr != nil {
		store = nil
	}

	sess := session.New()
	if err := sess.Load(filename, segment.Config{}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to read '%s': %v\n", filename, err)
		os.Exit(1)
	}
	if sess.Empty() {
		fmt.Fprintln(os.Stderr, "Error: No readable content in this book.")
		os.Exit(1)
	}

	rate := session.DefaultWPM
	if store != nil {
		rate = store.WPM()
	}
	if *wpm > 0 {
		rate = state.ClampWPM(*wpm)
	}

	var hash string
	if store != nil {
		if h, err := state.ComputeHash(filename); err == nil {
			hash = h
			if !*freshStart {
				if r, ok := store.Selection(hash); ok {
					sess.SetPageRange(r.Start, r.End)
				}
			}
		}
	}

	var provider analyze.Provider
	if *useMock {
		provider = analyze.NewMockProvider()
	} else {
		key := *apiKey
		if key == "" {
			key = os.Getenv("BOOKXRAY_API_KEY")
		}
		if key == "" && store != nil {
			key = store.APIKey()
		}
		provider = analyze.NewClient(key, "", "")
	}

	m := newModel(sess, store, hash, provider, rate)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
