package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aotforge/imagelink/image"
	"github.com/aotforge/imagelink/reloc"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A56E0"))

	shapeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	targetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browserModel struct {
	img      *image.Image
	filename string
	filter   textinput.Model
	visible  []reloc.Entry
	cursor   int
}

func newBrowserModel(filename string, img *image.Image) browserModel {
	filter := textinput.New()
	filter.Placeholder = "filter by target or function"
	filter.Prompt = "/ "

	m := browserModel{
		img:      img,
		filename: filename,
		filter:   filter,
	}
	m.refilter()
	return m
}

func (m *browserModel) refilter() {
	query := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for _, e := range m.img.Relocs {
		if query == "" ||
			strings.Contains(strings.ToLower(e.Target.String()), query) ||
			strings.Contains(strings.ToLower(owner(m.img, e.Site)), query) {
			m.visible = append(m.visible, e)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m browserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			return m, nil
		}
		if msg.String() == "q" && m.filter.Value() == "" && !m.filter.Focused() {
			return m, tea.Quit
		}
		if msg.String() == "/" && !m.filter.Focused() {
			m.filter.Focus()
			return m, textinput.Blink
		}
		if msg.Type == tea.KeyEnter && m.filter.Focused() {
			m.filter.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refilter()
	return m, cmd
}

func (m browserModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %d/%d relocation(s)",
		m.filename, len(m.visible), len(m.img.Relocs))))
	b.WriteString("\n\n")

	const window = 20
	start := 0
	if m.cursor >= window {
		start = m.cursor - window + 1
	}
	end := start + window
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for i := start; i < end; i++ {
		e := m.visible[i]
		addend := "-"
		if e.HasAddend {
			addend = fmt.Sprintf("%+d", e.Addend)
		}
		line := fmt.Sprintf("%#010x  size=%d  %-12s addend=%-6s %s",
			e.Site, e.Size, shapeStyle.Render(e.Shape.String()), addend,
			targetStyle.Render(e.Target.String()))
		if i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if len(m.visible) > 0 && m.cursor < len(m.visible) {
		e := m.visible[m.cursor]
		b.WriteByte('\n')
		b.WriteString(detailStyle.Render(fmt.Sprintf("owner: %s   shape: %s   target: %s",
			owner(m.img, e.Site), e.Shape, e.Target)))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.filter.View())
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("up/down move, / filter, enter apply, q/esc quit"))
	b.WriteByte('\n')
	return b.String()
}

func runInteractive(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, err := image.Decode(data)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newBrowserModel(path, img))
	_, err = p.Run()
	return err
}
