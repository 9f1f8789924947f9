package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/filter"
)

type projectsModel struct {
	rows    []api.Project
	cursor  int
	filter  filter.ProjectFilter
	bar     filterBar
	sel     selectionTracker
	loading bool
	errText string
}

func newProjectsModel(quiet time.Duration) projectsModel {
	return projectsModel{
		bar: newFilterBar(api.CollectionProjects,
			newDebouncedInput("client", "Client", "client", quiet),
			newDebouncedInput("size", "Size", "m2", quiet),
		),
		sel:     newSelection(),
		loading: true,
	}
}

func (m projectsModel) setData(rows []api.Project, err error) projectsModel {
	m.loading = false
	if err != nil {
		m.errText = readableError(err)
		return m
	}
	m.errText = ""
	m.rows = rows
	if m.cursor >= len(m.visible()) {
		m.cursor = 0
	}
	return m
}

func (m projectsModel) visible() []api.Project {
	var out []api.Project
	for _, p := range m.rows {
		if m.filter.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (m projectsModel) update(msg tea.KeyMsg) (projectsModel, tea.Cmd, bool) {
	if m.bar.active {
		if msg.String() == "esc" {
			m.bar = m.bar.deactivate()
			return m, nil, false
		}
		var cmd tea.Cmd
		m.bar, cmd = m.bar.update(msg)
		return m, cmd, false
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case " ":
		rows := m.visible()
		if m.cursor < len(rows) {
			m.sel.toggle(rows[m.cursor].Name)
		}
	case "ctrl+a":
		rows := m.visible()
		ids := make([]string, len(rows))
		for i, p := range rows {
			ids[i] = p.Name
		}
		m.sel.setAll(ids)
	case "u":
		m.sel.clear()
	case "/":
		var cmd tea.Cmd
		m.bar, cmd = m.bar.activate()
		return m, cmd, false
	case "ctrl+x":
		m.filter.Reset()
		m.bar = m.bar.syncFrom(m.filter.Get)
		return m, nil, true
	}
	return m, nil, false
}

func (m projectsModel) fire(msg debounceFireMsg) (projectsModel, bool) {
	bar, field, value, ok := m.bar.fire(msg)
	m.bar = bar
	if !ok {
		return m, false
	}
	m.filter.Set(field, value)
	return m, true
}

func (m projectsModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(m.bar.view())
	b.WriteString("\n\n")

	b.WriteString(tableHeaderStyle.Render(
		fmt.Sprintf("   %s %s %s %s %s",
			pad("Project", 34), pad("Client", 24), pad("Size m2", 10), pad("Type", 16), pad("Floors", 6))))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(mutedStyle.Render("loading..."))
	case m.errText != "":
		b.WriteString(errorStyle.Render(m.errText))
	default:
		rows := m.visible()
		if len(rows) == 0 {
			b.WriteString(mutedStyle.Render("no projects match"))
		}
		limit := height - 5
		if limit < 1 {
			limit = 1
		}
		start := 0
		if m.cursor >= limit {
			start = m.cursor - limit + 1
		}
		for i := start; i < len(rows) && i < start+limit; i++ {
			p := rows[i]
			mark := "[ ]"
			if m.sel.contains(p.Name) {
				mark = "[x]"
			}
			floors := p.NumberOfFloors.String()
			if floors == "" {
				floors = "-"
			}
			line := fmt.Sprintf("%s %s %s %s %s %s",
				mark, pad(p.Name, 34), pad(p.Client, 24),
				pad(formatPrice(p.SizeOfConstruction), 10), pad(p.ConstructionType, 16), pad(floors, 6))
			b.WriteString(renderRow(line, i == m.cursor, m.sel.contains(p.Name)) + "\n")
		}
	}
	return b.String()
}
