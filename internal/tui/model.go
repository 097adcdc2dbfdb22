// Package tui provides the Bubble Tea menu that opens the add-model flow.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joss/urp-models/internal/models"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Faint(true)

	pointerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	nameStyle = lipgloss.NewStyle().Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

const (
	defaultWidth = 80
	leftPercent  = 30
)

// Selection is the outcome of the menu.
type Selection int

const (
	SelectionCancelled Selection = iota
	SelectionConfirmed
)

func (s Selection) String() string {
	switch s {
	case SelectionConfirmed:
		return "confirmed"
	default:
		return "cancelled"
	}
}

// Model is the two-pane provider menu.
type Model struct {
	providers []models.ProviderDescriptor
	keys      keyMap
	help      help.Model
	selection Selection
	done      bool
	width     int
	height    int
}

// NewModel creates the menu model listing the supported providers.
func NewModel() Model {
	return Model{
		providers: models.Providers(),
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}

	switch msg := msg.(type) {
	case inputClosedMsg:
		m.selection = SelectionCancelled
		m.done = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.leftWidth()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.selection = SelectionConfirmed
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.selection = SelectionCancelled
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}

	left := m.providerPane()
	right := m.detailsPane()

	h := max(lipgloss.Height(left), lipgloss.Height(right))
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.pane("Select Type", left, m.leftWidth(), h),
		m.pane("Info", right, m.rightWidth(), h),
	)
}

// Selection returns the choice made by the user. It is SelectionCancelled
// until a confirm key is pressed.
func (m Model) Selection() Selection {
	return m.selection
}

func (m Model) totalWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) leftWidth() int {
	return m.totalWidth() * leftPercent / 100
}

func (m Model) rightWidth() int {
	return m.totalWidth() - m.leftWidth()
}

func (m Model) pane(title, body string, width, height int) string {
	// border takes one column on each side
	inner := max(width-2, 1)
	content := titleStyle.Render(title) + "\n" + body
	return paneStyle.
		Width(inner).
		Height(height + 1).
		Render(content)
}

func (m Model) providerPane() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" Providers"))
	b.WriteString("\n\n")
	for _, p := range m.providers {
		b.WriteString(pointerStyle.Render(" > " + p.Name))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	bindings := m.keys.ShortHelp()
	for i, binding := range bindings {
		b.WriteString(" ")
		b.WriteString(m.help.ShortHelpView([]key.Binding{binding}))
		if i < len(bindings)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) detailsPane() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" DETAILS"))
	b.WriteString("\n\n")
	b.WriteString(nameStyle.Render(" Custom OpenAI Compatible Endpoint"))
	b.WriteString("\n\n")
	b.WriteString(" Add any model that supports the OpenAI API format.\n\n")
	b.WriteString(infoStyle.Render(" You will need:"))
	b.WriteString("\n")
	b.WriteString("  1. API Endpoint URL\n")
	b.WriteString("  2. API Key\n")
	b.WriteString("  3. Model ID (e.g. gpt-4, llama-3)")

	return b.String()
}
