package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/wippyai/reltkit/relt"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSections modelState = iota
	stateEntries
	stateLookup
)

type interactiveModel struct {
	err      error
	table    *relt.Table
	fs       afero.Fs
	opts     Opts
	filename string
	result   string
	input    textinput.Model
	selected int
	entry    int
	state    modelState
}

type loadedMsg struct {
	err   error
	table *relt.Table
}

func newInteractiveModel(fs afero.Fs, filename string, opts Opts) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "0x40"
	ti.Prompt = "offset: "
	ti.Width = 24
	return &interactiveModel{
		fs:       fs,
		opts:     opts,
		filename: filename,
		input:    ti,
		state:    stateSections,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadTable
}

func (m *interactiveModel) loadTable() tea.Msg {
	t, err := loadTable(m.fs, m.filename, m.opts)
	return loadedMsg{table: t, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateLookup {
			return m.updateLookup(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter":
			if m.state == stateSections && m.table != nil && len(m.table.Descriptors) > 0 {
				m.state = stateEntries
				m.entry = 0
			}

		case "/":
			if m.table != nil {
				m.state = stateLookup
				m.result = ""
				m.input.SetValue("")
				return m, m.input.Focus()
			}

		case "esc":
			if m.state == stateEntries {
				m.state = stateSections
			}
		}

	case loadedMsg:
		m.err = msg.err
		m.table = msg.table
	}

	return m, nil
}

func (m *interactiveModel) updateLookup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input.Blur()
		m.state = stateSections
		return m, nil
	case "enter":
		m.result = lookup(m.table, m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) move(delta int) {
	if m.table == nil {
		return
	}
	switch m.state {
	case stateSections:
		m.selected = clamp(m.selected+delta, len(m.table.Descriptors))
	case stateEntries:
		m.entry = clamp(m.entry+delta, len(m.table.SectionEntries(m.selected)))
	}
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// lookup reports which section and entry cover the pointer field at the
// offset in text.
func lookup(t *relt.Table, text string) string {
	off, err := strconv.ParseInt(strings.TrimSpace(text), 0, 64)
	if err != nil {
		return fmt.Sprintf("not an offset: %q", text)
	}
	for i := range t.Descriptors {
		for j, e := range t.SectionEntries(i) {
			if slices.Contains(e.Offsets(), off) {
				return fmt.Sprintf("%#x: section %d, entry %d (base %#x)", off, i, j, e.Base)
			}
		}
	}
	return fmt.Sprintf("%#x: no relocation", off)
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.table == nil {
		return "Loading table..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("RELT"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf(" (table at %#x, %d bytes)\n\n", m.table.Offset, m.table.Length))

	switch m.state {
	case stateSections:
		for i, d := range m.table.Descriptors {
			line := fmt.Sprintf("section %d: %d entries, %d pointer(s)", i, d.Count, len(m.table.Offsets(i)))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter entries • / lookup • q quit"))

	case stateEntries:
		b.WriteString(fmt.Sprintf("Section %d\n\n", m.selected))
		for i, e := range m.table.SectionEntries(m.selected) {
			line := fmt.Sprintf("%#08x %032b", e.Base, e.Flags)
			if i == m.entry {
				b.WriteString(selectedStyle.Render("> " + line))
				for _, off := range e.Offsets() {
					b.WriteString(fmt.Sprintf(" %#x", off))
				}
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • esc back • q quit"))

	case stateLookup:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.result != "" {
			b.WriteString(resultStyle.Render(m.result))
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("enter look up • esc back"))
	}

	return b.String()
}

func runInteractive(fs afero.Fs, filename string, opts Opts) error {
	p := tea.NewProgram(newInteractiveModel(fs, filename, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
