package controller

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// fileResultDelegate renders one processed script in the results list.
type fileResultDelegate struct {
	offset int
}

func (d fileResultDelegate) Height() int  { return 1 }
func (d fileResultDelegate) Spacing() int { return 0 }
func (d fileResultDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d fileResultDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	result, ok := item.(fileResult)
	if !ok {
		return
	}

	isSelected := index == m.Index()
	fileWidth := m.Width() - 30 // status, indices and aliases columns

	statusStyle, countStyle, fileStyle := resultStyles(result, isSelected)

	displayFile := truncateToWidth(result.file, fileWidth)
	if isSelected {
		displayFile = animateScroll(result.file, fileWidth, d.offset)
	}

	counts := "-"
	if result.status == statusOK {
		counts = fmt.Sprintf("%d/%d", result.indices, result.aliases)
	}

	_, _ = fmt.Fprintf(w, "%s  %s  %s",
		statusStyle.Render(result.status),
		countStyle.Render(counts),
		fileStyle.Render(displayFile),
	)
}

func resultStyles(result fileResult, isSelected bool) (lipgloss.Style, lipgloss.Style, lipgloss.Style) {
	if isSelected {
		selected := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)

		return selected.Width(8), selected.Width(12).Align(lipgloss.Right), selected
	}

	statusColor := lipgloss.Color("2") // Green
	if result.status == statusFailed {
		statusColor = lipgloss.Color("1") // Red
	}

	return lipgloss.NewStyle().
			Foreground(statusColor).
			Bold(true).
			Width(8),
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Width(12).
			Align(lipgloss.Right),
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))
}

// batchModel shows progress while scripts are processed and a browsable
// results list once the batch is done.
type batchModel struct {
	width           int
	height          int
	progressBar     progress.Model
	totalFiles      int
	completedCount  int
	progressPercent float64
	threads         int
	threadFiles     map[int]string // Maps thread ID to the script it works on
	rendered        bool
	finished        bool
	results         []fileResult
	resultsList     list.Model
	delegate        fileResultDelegate
	animOffset      int
	lastSelected    int
	showDetail      bool
}

func newBatchModel() batchModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	delegate := fileResultDelegate{}
	resultsList := list.New([]list.Item{}, delegate, 80, 20)
	resultsList.SetShowPagination(false)
	resultsList.SetShowFilter(true)
	resultsList.SetShowHelp(false)
	resultsList.SetShowTitle(false)
	resultsList.SetShowStatusBar(false)
	resultsList.FilterInput.Placeholder = "Filter scripts…"

	return batchModel{
		progressBar:  prog,
		resultsList:  resultsList,
		delegate:     delegate,
		threadFiles:  make(map[int]string),
		lastSelected: -1,
	}
}

func (m batchModel) Init() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)

	case tea.KeyMsg:
		m, cmd = m.handleKeyMsg(msg)

	case tea.MouseMsg:
		m, cmd = m.handleMouseMsg(msg)

	case tickMsg:
		return m.handleTickMsg(msg)

	case batchInfoMsg:
		m.totalFiles = msg.files
		m.threads = msg.threads
		m.completedCount = 0
		m.progressPercent = 0
		m.rendered = true

	case startFileMsg:
		m.threadFiles[msg.thread] = msg.path
		m.rendered = true

	case completedFileMsg:
		m = m.handleCompletedFile(msg)

	case summaryMsg:
		m.finished = true
		m.rendered = true
	}

	return m, cmd
}

func (m batchModel) View() string {
	if !m.rendered {
		return "Collecting scripts…\n"
	}

	if m.finished {
		return m.viewResults()
	}

	return m.viewProgress()
}

func (m batchModel) viewProgress() string {
	accentColor := lipgloss.Color("6")

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	title := titleStyle.Render("🔓 Unrotate")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Progress: %s / %s  •  Workers: %s",
		accentStyle.Render(fmt.Sprintf("%d", m.completedCount)),
		accentStyle.Render(fmt.Sprintf("%d", m.totalFiles)),
		accentStyle.Render(fmt.Sprintf("%d", m.threads)),
	))

	progressView := lipgloss.NewStyle().
		Padding(0, 2).
		Render(m.progressBar.ViewAs(m.progressPercent))

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width).
		Render("Press q to quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		progressView,
		m.renderThreadBox(accentColor),
		footer,
	)
}

func (m batchModel) renderThreadBox(accentColor lipgloss.Color) string {
	contentStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Margin(1, 1, 1, 0).
		Width(max(m.width-4, 10))

	fileStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	// Width - Border(2) - Padding(2)
	availableWidth := m.width - 4 - 2 - 2
	prefixWidth := 0
	labelFormat := ""

	if m.threads > 1 {
		digits := len(fmt.Sprintf("%d", m.threads-1))
		prefixWidth = 7 + digits + 2 // "Worker " + digits + ": "
		labelFormat = fmt.Sprintf("Worker %%%dd: %%s", digits)
	}

	lines := make([]string, 0, m.threads)

	for i := range m.threads {
		content := "idle"
		if file := m.threadFiles[i]; file != "" {
			content = fileStyle.Render(truncateToWidth(file, max(availableWidth-prefixWidth, 10)))
		}

		if m.threads > 1 {
			content = fmt.Sprintf(labelFormat, i, content)
		}

		lines = append(lines, content)
	}

	return contentStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m batchModel) viewResults() string {
	accentColor := lipgloss.Color("6")

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	title := titleStyle.Render("🔓 Unrotate Results")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Scripts: %s  •  Rewritten: %s  •  Failed: %s  •  Decoded indices: %s",
		accentStyle.Render(fmt.Sprintf("%d", len(m.results))),
		accentStyle.Render(fmt.Sprintf("%d", m.countStatus(statusOK))),
		accentStyle.Render(fmt.Sprintf("%d", m.countStatus(statusFailed))),
		accentStyle.Render(fmt.Sprintf("%d", m.totalIndices())),
	))

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width).
		Render("↑/k up • ↓/j down • / filter • enter/space/click details • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		m.renderResultsBox(accentColor),
		footer,
	)
}

func (m batchModel) renderResultsBox(accentColor lipgloss.Color) string {
	listWidth := m.width - 4

	detail := m.renderDetailBox(accentColor, listWidth)

	listHeight := max(m.height-9-lipgloss.Height(detail), 5)
	if detail == "" {
		listHeight = max(m.height-9, 5)
	}

	m.resultsList.SetHeight(listHeight)
	m.resultsList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%-8s  %12s  %s", "Status", "Idx/Aliases", "Script"))

	resultsBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(0, 1, 0, 0).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, headers, m.resultsList.View()))

	if detail == "" {
		return resultsBox
	}

	return lipgloss.JoinVertical(lipgloss.Left, resultsBox, detail)
}

func (m batchModel) countStatus(status string) int {
	count := 0

	for _, result := range m.results {
		if result.status == status {
			count++
		}
	}

	return count
}

func (m batchModel) totalIndices() int {
	total := 0
	for _, result := range m.results {
		total += result.indices
	}

	return total
}

func (m batchModel) handleCompletedFile(msg completedFileMsg) batchModel {
	m.completedCount++
	m.results = append(m.results, msg.result)

	for thread, file := range m.threadFiles {
		if file == msg.result.file {
			delete(m.threadFiles, thread)
		}
	}

	items := make([]list.Item, 0, len(m.results))
	for _, r := range m.results {
		items = append(items, r)
	}

	m.resultsList.SetItems(items)
	m.rendered = true

	if m.totalFiles > 0 {
		m.progressPercent = float64(m.completedCount) / float64(m.totalFiles)
	}

	return m
}

func (m batchModel) handleKeyMsg(msg tea.KeyMsg) (batchModel, tea.Cmd) {
	var cmd tea.Cmd

	if key := msg.String(); key == "q" || key == "ctrl+c" {
		return m, tea.Quit
	}

	if !m.finished {
		return m, nil
	}

	if msg.String() == "enter" || msg.String() == " " {
		m.showDetail = !m.showDetail

		return m, nil
	}

	m.resultsList, cmd = m.resultsList.Update(msg)
	m = m.trackSelection()

	return m, cmd
}

func (m batchModel) handleMouseMsg(msg tea.MouseMsg) (batchModel, tea.Cmd) {
	var cmd tea.Cmd

	if !m.finished {
		return m, nil
	}

	m.resultsList, cmd = m.resultsList.Update(msg)
	m = m.trackSelection()

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease && m.resultsList.FilterState() != list.Filtering {
		m.showDetail = !m.showDetail
	}

	return m, cmd
}

// trackSelection resets the scroll animation and hides the detail box when
// the selected row changes.
func (m batchModel) trackSelection() batchModel {
	if m.resultsList.Index() == m.lastSelected {
		return m
	}

	m.lastSelected = m.resultsList.Index()
	m.animOffset = 0
	m.delegate.offset = 0
	m.resultsList.SetDelegate(m.delegate)
	m.showDetail = false

	return m
}

func (m batchModel) diffMaxLines() int {
	return min(max(m.height/3, 6), 20)
}

// renderDetailBox shows the selected script's output path, error or diff.
func (m batchModel) renderDetailBox(accentColor lipgloss.Color, width int) string {
	if !m.showDetail {
		return ""
	}

	result, ok := m.resultsList.SelectedItem().(fileResult)
	if !ok {
		return ""
	}

	contentWidth := max(width-4, 10)

	bodyLines := []string{truncateToWidth(result.detail, contentWidth)}
	if result.output != "" {
		bodyLines = append(bodyLines, truncateToWidth("→ "+result.output, contentWidth))
	}

	if diff := strings.TrimSpace(result.diff); diff != "" {
		lines := strings.Split(diff, "\n")
		maxLines := m.diffMaxLines()

		truncated := len(lines) > maxLines
		if truncated {
			lines = lines[:maxLines-1]
		}

		for _, line := range lines {
			bodyLines = append(bodyLines, renderDiffLine(line, contentWidth))
		}

		if truncated {
			bodyLines = append(bodyLines, "…")
		}
	}

	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Render(truncateToWidth(result.file, contentWidth))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(0, 1, 0, 0).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinVertical(lipgloss.Left, bodyLines...)))
}

func renderDiffLine(line string, width int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	switch {
	case strings.HasPrefix(line, "+++"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	case strings.HasPrefix(line, "---"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	case strings.HasPrefix(line, "@@"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	case strings.HasPrefix(line, "+"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case strings.HasPrefix(line, "-"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	case strings.TrimSpace(line) == "":
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}

	return style.Render(truncateToWidth(line, width))
}

func (m batchModel) handleWindowSize(msg tea.WindowSizeMsg) batchModel {
	m.width = msg.Width
	m.height = msg.Height
	m.progressBar.Width = max(m.width-8, 20)

	return m
}

func (m batchModel) handleTickMsg(_ tickMsg) (batchModel, tea.Cmd) {
	if m.finished && m.resultsList.FilterState() != list.Filtering {
		m.animOffset++
		m.delegate.offset = m.animOffset
		m.resultsList.SetDelegate(m.delegate)
	}

	return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
