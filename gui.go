//go:build gui

package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
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

type gui struct {
	sess  *session.Session
	store *state.Store
	hash  string

	provider analyze.Provider
	wpm      int

	window      fyne.Window
	statsLabel  *widget.Label
	rangeLabel  *widget.Label
	preview     *widget.Label
	progressBar *widget.ProgressBar
	result      *widget.RichText
	startSelect *widget.Select
	endSelect   *widget.Select
	startSlider *widget.Slider
	endSlider   *widget.Slider
	recapBtn    *widget.Button
	xrayBtn     *widget.Button

	syncing bool // guards against slider callbacks during refresh
}

func (g *gui) refreshSelection() {
	start, end := g.sess.Selection()
	g.rangeLabel.SetText(fmt.Sprintf("Pages %d-%d of %d (%s at %d WPM)",
		start, end, g.sess.PageCount(),
		session.ReadingTime(g.sess.SelectedWords(), g.wpm), g.wpm))

	text := ""
	for _, p := range g.sess.SelectedPages() {
		text += p.Content
	}
	g.preview.SetText(previewText(text, 400))

	g.syncing = true
	g.startSlider.SetValue(float64(start))
	g.endSlider.SetValue(float64(end))
	g.syncing = false

	g.result.ParseMarkdown("")
}

// previewText shows the first and last max runes of text.
func previewText(text string, max int) string {
	r := []rune(text)
	if len(r) <= 2*max {
		return text
	}
	return string(r[:max]) + "\n…\n" + string(r[len(r)-max:])
}

func (g *gui) runAnalysis(mode analyze.Mode) {
	g.recapBtn.Disable()
	g.xrayBtn.Disable()
	g.progressBar.Show()
	g.progressBar.SetValue(0)

	pages := g.sess.SelectedPages()
	book := g.sess.Meta.Title
	author := g.sess.Meta.Author
	pct := g.sess.Progress()

	go func() {
		a := &analyze.Analyzer{
			Provider: g.provider,
			Progress: func(done, total int) {
				fyne.Do(func() {
					if total > 0 {
						g.progressBar.SetValue(float64(done) / float64(total))
					}
				})
			},
		}
		report := a.Run(context.Background(), mode, pages, book, author, pct)

		fyne.Do(func() {
			g.sess.SetReport(string(mode), report)
			g.result.ParseMarkdown(report)
			g.progressBar.Hide()
			g.recapBtn.Enable()
			g.xrayBtn.Enable()
		})
	}()
}

func (g *gui) settingsDialog(a fyne.App) {
	keyEntry := widget.NewPasswordEntry()
	keyEntry.SetPlaceHolder("nvapi-...")
	wpmEntry := widget.NewEntry()
	wpmEntry.SetText(strconv.Itoa(g.wpm))
	if g.store != nil {
		keyEntry.SetText(g.store.APIKey())
	}

	form := widget.NewForm(
		widget.NewFormItem("API key", keyEntry),
		widget.NewFormItem("Words per minute", wpmEntry),
	)

	win := a.NewWindow("Settings")
	form.OnSubmit = func() {
		if n, err := strconv.Atoi(wpmEntry.Text); err == nil {
			g.wpm = state.ClampWPM(n)
		}
		if g.store != nil {
			g.store.SetAPIKey(keyEntry.Text)
			g.store.SetWPM(g.wpm)
		}
		g.refreshSelection()
		win.Close()
	}
	form.OnCancel = func() { win.Close() }
	win.SetContent(form)
	win.Resize(fyne.NewSize(400, 160))
	win.Show()
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
		fmt.Fprintf(os.Stderr, "Bookxray - Book Analysis Tool (GUI)\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  bookxray-gui [options] <file.epub|file.md>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("bookxray-gui %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: No input provided. Provide an EPUB or Markdown file.")
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

	a := app.New()
	w := a.NewWindow("bookxray - " + sess.Meta.Title)

	g := &gui{
		sess:     sess,
		store:    store,
		hash:     hash,
		provider: provider,
		wpm:      rate,
		window:   w,
	}

	titleLabel := widget.NewLabelWithStyle(sess.Meta.Title, fyne.TextAlignLeading,
		fyne.TextStyle{Bold: true})
	authorLabel := widget.NewLabelWithStyle("by "+sess.Meta.Author, fyne.TextAlignLeading,
		fyne.TextStyle{Italic: true})
	g.statsLabel = widget.NewLabel(fmt.Sprintf("%d pages | %d chapters | %d words",
		sess.PageCount(), len(sess.Chapters), sess.TotalWords()))
	g.rangeLabel = widget.NewLabel("")
	g.preview = widget.NewLabel("")
	g.preview.Wrapping = fyne.TextWrapWord

	header := container.NewVBox(titleLabel, authorLabel, g.statsLabel)
	if len(sess.Meta.Cover) > 0 {
		img := canvas.NewImageFromReader(bytes.NewReader(sess.Meta.Cover), "cover")
		if img != nil {
			img.FillMode = canvas.ImageFillContain
			img.SetMinSize(fyne.NewSize(90, 130))
			header = container.NewVBox(container.NewHBox(img, container.NewVBox(
				titleLabel, authorLabel, g.statsLabel)))
		}
	}

	titles := sess.ChapterTitles()
	g.startSelect = widget.NewSelect(titles, nil)
	g.endSelect = widget.NewSelect(titles, nil)
	onChapterChange := func(string) {
		if g.startSelect.Selected == "" || g.endSelect.Selected == "" {
			return
		}
		if err := sess.SetChapterRange(g.startSelect.Selected, g.endSelect.Selected); err == nil {
			g.refreshSelection()
		}
	}
	g.startSelect.OnChanged = onChapterChange
	g.endSelect.OnChanged = onChapterChange

	g.startSlider = widget.NewSlider(1, float64(sess.PageCount()))
	g.startSlider.Step = 1
	g.endSlider = widget.NewSlider(1, float64(sess.PageCount()))
	g.endSlider.Step = 1
	g.startSlider.OnChanged = func(v float64) {
		if g.syncing {
			return
		}
		_, end := sess.Selection()
		sess.SetPageRange(int(v), end)
		g.refreshSelection()
	}
	g.endSlider.OnChanged = func(v float64) {
		if g.syncing {
			return
		}
		start, _ := sess.Selection()
		sess.SetPageRange(start, int(v))
		g.refreshSelection()
	}

	g.progressBar = widget.NewProgressBar()
	g.progressBar.Hide()

	g.result = widget.NewRichTextFromMarkdown("")
	g.result.Wrapping = fyne.TextWrapWord
	resultScroll := container.NewVScroll(g.result)
	resultScroll.SetMinSize(fyne.NewSize(500, 280))

	g.recapBtn = widget.NewButton("Story Recap", func() { g.runAnalysis(analyze.Recap) })
	g.xrayBtn = widget.NewButton("X-Ray Analysis", func() { g.runAnalysis(analyze.XRay) })
	settingsBtn := widget.NewButton("Settings", func() { g.settingsDialog(a) })

	content := container.NewVBox(
		header,
		widget.NewSeparator(),
		container.NewGridWithColumns(2,
			container.NewVBox(widget.NewLabel("From chapter"), g.startSelect),
			container.NewVBox(widget.NewLabel("To chapter"), g.endSelect),
		),
		container.NewGridWithColumns(2,
			container.NewVBox(widget.NewLabel("Start page"), g.startSlider),
			container.NewVBox(widget.NewLabel("End page"), g.endSlider),
		),
		g.rangeLabel,
		g.preview,
		container.NewGridWithColumns(3, g.recapBtn, g.xrayBtn, settingsBtn),
		g.progressBar,
		widget.NewSeparator(),
		resultScroll,
	)

	g.refreshSelection()

	w.SetOnClosed(func() {
		if g.store != nil && g.hash != "" {
			start, end := sess.Selection()
			g.store.SetSelection(g.hash, state.PageRange{Start: start, End: end})
		}
	})

	w.Resize(fyne.NewSize(640, 760))
	w.SetContent(container.NewVScroll(content))
	w.ShowAndRun()
}
