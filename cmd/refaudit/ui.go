// # cmd/refaudit/ui.go
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"refaudit/internal/audit"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	zeroStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	unused      bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type uiModel struct {
	list       list.Model
	entries    []audit.Entry
	zeroUsage  int
	fileCount  int
	dialect    string
	lastUpdate time.Time
}

type updateMsg struct {
	entries   []audit.Entry
	zeroUsage int
	fileCount int
	dialect   string
}

func (m uiModel) Init() tea.Cmd {
	return nil
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.entries = msg.entries
		m.zeroUsage = msg.zeroUsage
		m.fileCount = msg.fileCount
		m.dialect = msg.dialect
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, e := range m.entries {
			desc := fmt.Sprintf("%d usages | %s", len(e.Refs), e.Decl.Text)
			if len(e.Refs) == 0 {
				desc = "no usages | " + e.Decl.Text
			}
			items = append(items, item{
				title:  fmt.Sprintf("%s %s", e.Decl.Kind, e.Decl.QualifiedName()),
				desc:   desc,
				unused: len(e.Refs) == 0,
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m uiModel) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last run: %v | %d files | %s",
		m.lastUpdate.Format("15:04:05"), m.fileCount, m.dialect))

	var summary string
	if m.zeroUsage == 0 {
		summary = okStyle.Render(fmt.Sprintf("%d declarations, all used", len(m.entries)))
	} else {
		summary = zeroStyle.Render(fmt.Sprintf("%d of %d declarations unused", m.zeroUsage, len(m.entries)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Public Surface Audit"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() uiModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Declarations"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return uiModel{
		list:       l,
		lastUpdate: time.Now(),
	}
}
