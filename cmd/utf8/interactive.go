package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/utf8-codec/internal/config"
	"github.com/wippyai/utf8-codec/utf8"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	bytesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	replacedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inputMode int

const (
	modeText inputMode = iota
	modeHex
)

func (m inputMode) String() string {
	if m == modeHex {
		return "hex octets"
	}
	return "text"
}

type row struct {
	cp    utf8.CodePoint
	bytes []byte
	name  string
}

type inspectorModel struct {
	cfg          *config.Config
	input        textinput.Model
	mode         inputMode
	rows         []row
	replacements uint64
	err          error
}

func newInspectorModel(cfg *config.Config) *inspectorModel {
	ti := textinput.New()
	ti.Placeholder = "type text"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &inspectorModel{cfg: cfg, input: ti}
}

func (m *inspectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.mode = (m.mode + 1) % 2
			m.input.Placeholder = "type " + m.mode.String()
			m.input.SetValue("")
			m.inspect()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inspect()
	return m, cmd
}

// inspect decodes the current input and rebuilds the table.
func (m *inspectorModel) inspect() {
	m.rows, m.replacements, m.err = nil, 0, nil

	var data []byte
	switch m.mode {
	case modeHex:
		if strings.TrimSpace(m.input.Value()) == "" {
			return
		}
		var err error
		if data, err = parseHexOctets([]string{m.input.Value()}); err != nil {
			m.err = err
			return
		}
	default:
		data = []byte(m.input.Value())
	}

	var opts []utf8.Option
	if m.cfg.Lenient {
		opts = append(opts, utf8.WithLenientScalars())
	}
	cps, replacements := decodeChunked(data, m.cfg.ChunkSize, opts...)
	m.replacements = replacements
	for _, c := range cps {
		m.rows = append(m.rows, row{
			cp:    c,
			bytes: utf8.AppendCodePoint(nil, c),
			name:  runeName(c),
		})
	}
	if m.mode == modeHex {
		m.err = utf8.Validate(data)
	}
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("UTF-8 Inspector"))
	b.WriteString(" input: ")
	b.WriteString(m.mode.String())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for _, r := range m.rows {
		line := fmt.Sprintf("%-9s %-12s %s", notation(r.cp), fmt.Sprintf("% X", r.bytes), r.name)
		if r.cp == utf8.Replacement {
			b.WriteString(replacedStyle.Render(line))
		} else {
			b.WriteString(codeStyle.Render(notation(r.cp)))
			b.WriteString(strings.TrimPrefix(line, notation(r.cp)))
		}
		b.WriteString("\n")
	}

	if len(m.rows) > 0 {
		b.WriteString("\n")
		b.WriteString(bytesStyle.Render(fmt.Sprintf("%d code points, %d replacements", len(m.rows), m.replacements)))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(replacedStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.mode == modeHex && len(m.rows) > 0 {
		b.WriteString(okStyle.Render("well-formed"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab switch input • esc quit"))
	return b.String()
}

func runInteractive(cfg *config.Config) error {
	p := tea.NewProgram(newInspectorModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
