package controller

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tickMsg time.Time

// entryDelegate renders one string table slot.
type entryDelegate struct {
	offset int
}

func (d entryDelegate) Height() int  { return 1 }
func (d entryDelegate) Spacing() int { return 0 }
func (d entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(entryItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	value := entry.value
	if !entry.raw {
		value = quoteForDisplay(value)
	}

	width := m.Width() - 10 // index column (8) + spacing (2)

	var indexStyle, valueStyle lipgloss.Style

	var displayValue string

	if isSelected {
		indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true).
			Width(8).
			Align(lipgloss.Right)
		valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)

		displayValue = animateScroll(value, width, d.offset)
	} else {
		indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Width(8).
			Align(lipgloss.Right)
		valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

		if entry.raw {
			valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
		}

		displayValue = truncateToWidth(value, width)
	}

	_, _ = fmt.Fprintf(w, "%s  %s", indexStyle.Render(entry.index), valueStyle.Render(displayValue))
}

// animateScroll returns a width-wide window over text that scrolls with
// offset once a short pause has passed. Text that fits is returned as is.
func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const (
		gap   = "   "
		pause = 5 // ticks before scrolling starts
	)

	if offset < pause {
		return truncateToWidth(text, width)
	}

	runes := []rune(text + gap)
	n := len(runes)
	start := (offset - pause) % n

	res := make([]rune, 0, width)
	for i := range width {
		res = append(res, runes[(start+i)%n])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// inspectModel browses the converged string table of one script.
type inspectModel struct {
	width        int
	height       int
	entries      list.Model
	delegate     entryDelegate
	view         inspectionView
	rendered     bool
	animOffset   int
	lastSelected int
}

func newInspectModel() inspectModel {
	delegate := entryDelegate{}
	entries := list.New([]list.Item{}, delegate, 80, 20)
	entries.SetShowPagination(false)
	entries.SetShowFilter(true)
	entries.SetShowHelp(false)
	entries.SetShowTitle(false)
	entries.SetShowStatusBar(false)
	entries.FilterInput.Placeholder = "Filter by value…"

	return inspectModel{
		entries:      entries,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (m inspectModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.entries.SetWidth(m.width)

	case tickMsg:
		if m.entries.FilterState() != list.Filtering && m.rendered {
			m.animOffset++
			m.delegate.offset = m.animOffset
			m.entries.SetDelegate(m.delegate)

			return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			m.entries, cmd = m.entries.Update(msg)

			if m.entries.Index() != m.lastSelected {
				m.lastSelected = m.entries.Index()
				m.animOffset = 0
				m.delegate.offset = 0
				m.entries.SetDelegate(m.delegate)
			}

			return m, cmd
		}

	case inspectionMsg:
		m = m.handleInspectionMsg(msg)
	}

	return m, cmd
}

func (m inspectModel) handleInspectionMsg(msg inspectionMsg) inspectModel {
	m.view = msg.view

	items := make([]list.Item, 0, len(msg.view.Table))
	for _, entry := range msg.view.Table {
		items = append(items, entryItem{index: entry.Index, value: entry.Value, raw: entry.Raw})
	}

	m.entries.SetItems(items)
	m.rendered = true

	if len(items) > 0 && m.lastSelected == -1 {
		m.lastSelected = 0
	}

	return m
}

func (m inspectModel) View() string {
	if !m.rendered {
		return "Recovering string table…\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("🔓 Unrotate · " + m.view.Script)

	summary := summaryStyle.Render(fmt.Sprintf(
		"Decoder: %s   Aliases: %s   Offset: %s   Target: %s   Rotations: %s\nChecksum: %s",
		accentStyle.Render(m.view.Decoder),
		accentStyle.Render(strings.Join(m.view.Aliases, ", ")),
		accentStyle.Render(m.view.Offset),
		accentStyle.Render(m.view.Target),
		accentStyle.Render(fmt.Sprintf("%d", m.view.Rotations)),
		accentStyle.Render(truncateToWidth(m.view.Checksum, max(m.width-14, 20))),
	))

	table := m.renderTable()

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		table,
		footer,
	)
}

func (m inspectModel) renderTable() string {
	// Title, two summary lines, footer, border and headers.
	listHeight := max(m.height-10, 5)
	listWidth := m.width - 6

	m.entries.SetHeight(listHeight)
	m.entries.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%8s  %s", "Index", "Value"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			m.entries.View(),
		),
	)
}
