// Package browse provides the Bubble Tea viewer for generated text and the
// chain table layout.
package browse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/hashmarkov/internal/generator"
	"github.com/verte-zerg/hashmarkov/internal/hashtable"
	"github.com/verte-zerg/hashmarkov/internal/model"
	"github.com/verte-zerg/hashmarkov/internal/stats"
	"github.com/verte-zerg/hashmarkov/internal/wrap"
)

const (
	tabText = iota
	tabSlots
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
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea browse UI.
type Model struct {
	table *hashtable.Table
	cfg   model.Config
	seed  int64

	words  []string
	errMsg string
	occ    stats.Occupancy
	slots  []stats.SlotInfo

	tabs      []string
	activeTab int
	textView  viewport.Model
	slotTable table.Model

	width  int
	height int
}

// NewModel constructs a browse model over a built table. Text is generated
// with cfg.Seed first; each regeneration moves to the next seed.
func NewModel(t *hashtable.Table, cfg model.Config) *Model {
	m := &Model{
		table:    t,
		cfg:      cfg,
		seed:     cfg.Seed,
		tabs:     []string{"Text", "Slots"},
		textView: viewport.New(0, 0),
	}
	m.occ, m.slots = stats.Analyze(t)
	m.slotTable = buildSlotTable(m.slots, 0, 1)
	m.regenerate()
	return m
}

// Seed returns the seed of the text currently shown.
func (m *Model) Seed() int64 {
	return m.seed
}

// Words returns the text currently shown.
func (m *Model) Words() []string {
	return m.words
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "n":
			m.seed++
			m.regenerate()
			return m, nil
		case "p":
			m.seed--
			m.regenerate()
			return m, nil
		case "g", "home":
			if m.activeTab == tabSlots {
				m.slotTable.GotoTop()
			} else {
				m.textView.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSlots {
				m.slotTable.GotoBottom()
			} else {
				m.textView.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabSlots {
				m.slotTable, cmd = m.slotTable.Update(msg)
				return m, cmd
			}
			m.textView, cmd = m.textView.Update(msg)
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
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) regenerate() {
	words, err := generator.New(m.seed).Generate(m.table, m.cfg.PrefixLen, m.cfg.Words)
	m.words = words
	m.errMsg = ""
	if err != nil {
		m.errMsg = err.Error()
	}
	m.renderText()
}

func (m *Model) renderText() {
	var content string
	switch {
	case m.width > 0:
		content = wrap.Width(m.words, m.width)
	case m.cfg.Width > 0:
		content = wrap.Width(m.words, m.cfg.Width)
	default:
		content = wrap.Lines(m.words, wrap.WordsPerLine)
	}
	m.textView.SetContent(content)
	m.textView.GotoTop()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
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
	m.textView.Width = m.width
	m.textView.Height = bodyHeight
	m.slotTable.SetWidth(m.width)
	m.slotTable.SetHeight(maxInt(1, bodyHeight-1))
	m.renderText()
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabSlots {
		m.slotTable.Focus()
	} else {
		m.slotTable.Blur()
	}
}

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
	summary := fmt.Sprintf("Settings: seed=%d  prefix=%d  words=%d  slots=%d/%d  collisions=%d  max shift=%d",
		m.seed, m.cfg.PrefixLen, m.cfg.Words, m.occ.Used, m.occ.Capacity, m.occ.Collisions, m.occ.MaxShift)
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.activeTab == tabSlots {
		if len(m.slots) == 0 {
			return "No occupied slots."
		}
		return tableMutedStyle.Render(m.slotTable.View())
	}
	return m.textView.View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Next/prev seed: n/p  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func buildSlotTable(slots []stats.SlotInfo, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Slot", Width: 6},
		{Title: "Home", Width: 6},
		{Title: "Shift", Width: 6},
		{Title: "Next", Width: 6},
		{Title: "Key", Width: 40},
	}
	rows := make([]table.Row, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, table.Row{
			strconv.Itoa(s.Index),
			strconv.Itoa(s.Home),
			strconv.Itoa(s.Shift),
			strconv.Itoa(s.Successors),
			s.Key,
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(slotTableStyles())
	return t
}

func slotTableStyles() table.Styles {
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
