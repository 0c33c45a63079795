// Package tui implements the interactive analysis flow: stage a job
// description and a CV batch, run the comparison, browse ranked results.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cv-matcher/internal/intake"
	"cv-matcher/internal/models"
)

type phase int

const (
	phaseUpload phase = iota
	phaseAnalyzing
	phaseResults
)

// inputTarget says which slot the path prompt is filling.
type inputTarget int

const (
	targetNone inputTarget = iota
	targetJob
	targetCV
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 0, 0, 2)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24")).
				Padding(0, 0, 0, 2)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 0, 0, 4)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(1, 0, 0, 2)

	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))
)

// RankedResult pairs a model result with the staged file it scored.
type RankedResult struct {
	File models.UploadedFile
	models.CandidateResult
}

// AnalysisRunner is the outbound call the view makes once per analysis.
type AnalysisRunner interface {
	Compare(ctx context.Context, jobDescription models.UploadedFile, cvFiles []models.UploadedFile) (*models.ComparisonOutcome, error)
}

// analysisDoneMsg is sent when the async comparison call completes.
type analysisDoneMsg struct {
	outcome *models.ComparisonOutcome
	err     error
}

type Model struct {
	runner   AnalysisRunner
	phase    phase
	jobFile  *models.UploadedFile
	cvWidget *intake.Widget
	cvFiles  []models.UploadedFile

	cursor  int
	input   textinput.Model
	target  inputTarget
	errMsg  string
	spinner spinner.Model

	results    []RankedResult
	rawResult  string
	resultView viewport.Model

	width  int
	height int
	ready  bool
}

// NewModel builds the analysis view. jobPath and cvPaths are optional
// pre-staged files from the command line; they go through the same intake
// validation as interactively entered paths.
func NewModel(runner AnalysisRunner, widget *intake.Widget, jobPath string, cvPaths []string) (Model, error) {
	input := textinput.New()
	input.Placeholder = "path/to/file.pdf"
	input.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	m := Model{
		runner:   runner,
		phase:    phaseUpload,
		cvWidget: widget,
		input:    input,
		spinner:  sp,
	}

	if jobPath != "" {
		file, err := LoadFile(jobPath)
		if err != nil {
			return Model{}, err
		}
		m.jobFile = &file
	}
	for _, path := range cvPaths {
		file, err := LoadFile(path)
		if err != nil {
			return Model{}, err
		}
		widget.Add(file)
	}
	m.cvFiles = widget.Files()

	return m, nil
}

// LoadFile reads a document from disk into an UploadedFile, inferring the
// MIME type from the extension.
func LoadFile(path string) (models.UploadedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return models.UploadedFile{
		Name:     filepath.Base(path),
		Size:     int64(len(content)),
		MIMEType: MIMEForExtension(filepath.Ext(path)),
		Content:  content,
	}, nil
}

// MIMEForExtension maps the supported document extensions to MIME types.
func MIMEForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resultView = viewport.New(msg.Width-4, msg.Height-6)
		m.ready = true
		if m.phase == phaseResults {
			m.resultView.SetContent(m.renderResults())
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case analysisDoneMsg:
		return m.handleAnalysisDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Failure returns to upload; nothing staged is discarded.
		m.phase = phaseUpload
		m.errMsg = fmt.Sprintf("Analysis failed: %v", msg.err)
		return m, nil
	}

	m.results = RankResults(m.cvFiles, *msg.outcome)
	if msg.outcome.Structured {
		m.rawResult = ""
	} else {
		m.rawResult = msg.outcome.Raw
	}
	m.phase = phaseResults
	m.errMsg = ""
	if m.ready {
		m.resultView.SetContent(m.renderResults())
		m.resultView.GotoTop()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The path prompt swallows every key except esc and enter.
	if m.target != targetNone {
		switch msg.String() {
		case "esc":
			m.target = targetNone
			m.input.Blur()
			return m, nil
		case "enter":
			return m.submitPath()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch m.phase {
	case phaseUpload:
		return m.handleUploadKey(msg)
	case phaseAnalyzing:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case phaseResults:
		return m.handleResultsKey(msg)
	}
	return m, nil
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.cvFiles)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.target = targetCV
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "d":
		m.target = targetJob
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "x":
		m.cvWidget.Remove(m.cursor)
		m.cvFiles = m.cvWidget.Files()
		if m.cursor >= len(m.cvFiles) && m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		// Guard: exactly one job description and at least one CV.
		if m.jobFile == nil || len(m.cvFiles) == 0 {
			m.errMsg = "Stage a job description and at least one CV first"
			return m, nil
		}
		m.phase = phaseAnalyzing
		m.errMsg = ""
		return m, tea.Batch(m.spinner.Tick, m.startAnalysis())
	}
	return m, nil
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r", "esc":
		// Back to upload; results cleared, staged files kept.
		m.phase = phaseUpload
		m.results = nil
		m.rawResult = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.resultView, cmd = m.resultView.Update(msg)
	return m, cmd
}

func (m Model) submitPath() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.input.Value())
	target := m.target
	m.target = targetNone
	m.input.Blur()
	if path == "" {
		return m, nil
	}

	file, err := LoadFile(path)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	switch target {
	case targetJob:
		m.jobFile = &file
		m.errMsg = ""
	case targetCV:
		if m.cvWidget.Add(file) == 0 {
			m.errMsg = fmt.Sprintf("%s was rejected (type, size, or batch full)", file.Name)
		} else {
			m.errMsg = ""
		}
		m.cvFiles = m.cvWidget.Files()
	}
	return m, nil
}

// startAnalysis snapshots the staged batch and fires the single comparison
// call. The batch is fixed at this point; later staging edits cannot race
// with the request.
func (m Model) startAnalysis() tea.Cmd {
	job := *m.jobFile
	cvs := make([]models.UploadedFile, len(m.cvFiles))
	copy(cvs, m.cvFiles)
	runner := m.runner

	return func() tea.Msg {
		outcome, err := runner.Compare(context.Background(), job, cvs)
		return analysisDoneMsg{outcome: outcome, err: err}
	}
}

// RankResults maps each returned result onto its input file by position and
// sorts descending by score. The sort is stable, so equal scores keep input
// order. Missing fields and missing files get placeholders.
func RankResults(cvFiles []models.UploadedFile, outcome models.ComparisonOutcome) []RankedResult {
	if !outcome.Structured {
		return nil
	}

	results := make([]RankedResult, 0, len(outcome.Candidates))
	for i, candidate := range outcome.Candidates {
		r := RankedResult{CandidateResult: candidate}
		if i < len(cvFiles) {
			r.File = cvFiles[i]
		} else {
			r.File = models.UploadedFile{Name: fmt.Sprintf("CV_%d", i+1)}
		}
		if r.FullName == "" {
			r.FullName = fmt.Sprintf("Candidate %d", i+1)
		}
		if r.Explanation == "" {
			r.Explanation = "No explanation provided"
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func (m Model) View() string {
	switch m.phase {
	case phaseAnalyzing:
		return m.viewAnalyzing()
	case phaseResults:
		return m.viewResults()
	default:
		return m.viewUpload()
	}
}

func (m Model) viewUpload() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CV Matcher - Upload"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Job description"))
	b.WriteString("\n")
	if m.jobFile != nil {
		b.WriteString(itemStyle.Render(fmt.Sprintf("%s  %s", m.jobFile.Name, models.FormatFileSize(m.jobFile.Size))))
	} else {
		b.WriteString(subtleStyle.Render("none - press d to set"))
	}
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render(fmt.Sprintf("CVs to analyze (%d)", len(m.cvFiles))))
	b.WriteString("\n")
	if len(m.cvFiles) == 0 {
		b.WriteString(subtleStyle.Render("none - press a to add"))
		b.WriteString("\n")
	}
	for i, file := range m.cvFiles {
		label := fmt.Sprintf("%s  %s", file.Name, models.FormatFileSize(file.Size))
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> " + label))
		} else {
			b.WriteString(itemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if m.target != targetNone {
		prompt := "Add CV"
		if m.target == targetJob {
			prompt = "Set job description"
		}
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(prompt))
		b.WriteString("\n")
		b.WriteString(itemStyle.Render(m.input.View()))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("d job  a add cv  j/k navigate  x remove  enter analyze  q quit"))
	return b.String()
}

func (m Model) viewAnalyzing() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CV Matcher - Analyzing"))
	b.WriteString("\n")
	b.WriteString(itemStyle.Render(fmt.Sprintf("%s Comparing %d CV(s) against the job description...", m.spinner.View(), len(m.cvFiles))))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("this may take a few moments"))
	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CV Matcher - Results"))
	b.WriteString("\n")
	if m.ready {
		b.WriteString(m.resultView.View())
	} else {
		b.WriteString(m.renderResults())
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("j/k scroll  r back to upload  q quit"))
	return b.String()
}

func (m Model) renderResults() string {
	if m.rawResult != "" {
		var b strings.Builder
		b.WriteString(sectionStyle.Render("The model response could not be parsed as a ranking. Raw output:"))
		b.WriteString("\n\n")
		b.WriteString(itemStyle.Render(m.rawResult))
		return b.String()
	}

	var b strings.Builder
	for i, result := range m.results {
		rank := fmt.Sprintf("#%d", i+1)
		b.WriteString(sectionStyle.Render(fmt.Sprintf("%s  %s  %s", rank, result.FullName, scoreStyle.Render(fmt.Sprintf("%d%%", result.Score)))))
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render(fmt.Sprintf("%s  %s", result.File.Name, models.FormatFileSize(result.File.Size))))
		b.WriteString("\n")
		b.WriteString(itemStyle.Render(result.Explanation))
		b.WriteString("\n\n")
	}
	return b.String()
}
