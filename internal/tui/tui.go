// Package tui is a terminal browser for the gallery, driving the same controller
// the site uses from the keyboard.
package tui

import (
	"fmt"
	"path"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/imlogolabs/studio/internal/gallery"
)

const columns = 3

var (
	accent = lipgloss.Color("#EAB308")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	cellStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3F3F46")).
			Padding(0, 1)
	expandedStyle = cellStyle.
			BorderForeground(accent).
			Bold(true)
	dotStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52525B"))
	activeDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#71717A")).PaddingTop(1)
)

// loadSettledMsg finishes a load once the reveal pause has elapsed.
type loadSettledMsg struct {
	done func()
}

// Model is the bubbletea model of the browser.
type Model struct {
	controller *gallery.Controller
	title      string
	settle     time.Duration
	cellWidth  int
	width      int
}

// New wraps controller. Loads settle after settle has elapsed.
func New(controller *gallery.Controller, title string, settle time.Duration) Model {
	return Model{
		controller: controller,
		title:      title,
		settle:     settle,
		cellWidth:  18,
	}
}

// Controller returns the wrapped gallery controller.
func (m Model) Controller() *gallery.Controller {
	return m.controller
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width/columns - 4; w > 8 {
			m.cellWidth = min(w, 30)
		}
		return m, nil

	case loadSettledMsg:
		msg.done()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.controller
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		c.Paginate(gallery.Prev)
	case "right", "l":
		c.Paginate(gallery.Next)
	case "esc":
		c.ClearSelection()
	case "r":
		c.Reset()
	case "m", "enter":
		if done, ok := c.LoadMore(); ok {
			return m, m.settleCmd(done)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(msg.String()[0] - '1')
		visible := c.Visible()
		if n < len(visible) {
			c.SelectImage(visible[n].Path)
		}
	}
	return m, nil
}

func (m Model) settleCmd(done func()) tea.Cmd {
	if m.settle <= 0 {
		return func() tea.Msg { return loadSettledMsg{done: done} }
	}
	return tea.Tick(m.settle, func(time.Time) tea.Msg {
		return loadSettledMsg{done: done}
	})
}

func (m Model) View() string {
	state := m.controller.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s mode, %d images", state.Mode, state.Total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderGrid(m.controller.Visible()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(state))
	b.WriteString(helpStyle.Render(m.help(state)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderGrid(cells []gallery.Cell) string {
	if len(cells) == 0 {
		return subtitleStyle.Render("No images.") + "\n"
	}
	var rows []string
	for start := 0; start < len(cells); start += columns {
		end := min(start+columns, len(cells))
		var rendered []string
		for _, cell := range cells[start:end] {
			rendered = append(rendered, m.renderCell(cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(cell gallery.Cell) string {
	label := fmt.Sprintf("%d  %s", cell.Number(), path.Base(string(cell.Path)))
	style := cellStyle
	width := m.cellWidth
	if cell.State() == gallery.CellExpanded {
		style = expandedStyle
		width = m.cellWidth*cell.Span() + 4
		label = "▣ " + label
	}
	return style.Width(width).Render(truncate(label, width-2))
}

func (m Model) renderFooter(state gallery.State) string {
	if state.Mode == gallery.ModeReveal.String() {
		status := fmt.Sprintf("Showing %d of %d", state.RevealCount, state.Total)
		if state.Loading {
			status += "  loading…"
		}
		return subtitleStyle.Render(status)
	}
	var dots []string
	for i := 0; i < state.TotalPages; i++ {
		if i == state.CurrentPage {
			dots = append(dots, activeDotStyle.Render("●"))
		} else {
			dots = append(dots, dotStyle.Render("○"))
		}
	}
	footer := strings.Join(dots, " ")
	if state.HasSelection {
		footer += subtitleStyle.Render("  locked while expanded")
	}
	return footer
}

func (m Model) help(state gallery.State) string {
	if state.Mode == gallery.ModeReveal.String() {
		action := "m load more"
		if state.Exhausted {
			action = "m back to top"
		}
		return "1-9 expand • " + action + " • esc collapse • r reset • q quit"
	}
	return "←/→ page • 1-9 expand • esc collapse • r reset • q quit"
}

func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
