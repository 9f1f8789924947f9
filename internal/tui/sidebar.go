package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/filter"
)

// sidebarModel is the project scope panel. Checked projects constrain every
// collection fetch; scope order is insertion order, which the fetch layer
// preserves when concatenating per-project partitions. The search box
// narrows the visible list immediately, without debouncing, and never talks
// to the network.
type sidebarModel struct {
	projects []api.Project
	search   textinput.Model
	scope    []string
	scopeSet map[string]struct{}
	cursor   int
	loading  bool
	errText  string
}

func newSidebar() sidebarModel {
	ti := textinput.New()
	ti.Placeholder = "search projects"
	ti.Prompt = "/ "
	ti.CharLimit = 120
	ti.Width = 24
	return sidebarModel{
		search:   ti,
		scopeSet: make(map[string]struct{}),
		loading:  true,
	}
}

func (m sidebarModel) setProjects(ps []api.Project, err error) sidebarModel {
	m.loading = false
	if err != nil {
		m.errText = readableError(err)
		return m
	}
	m.errText = ""
	m.projects = ps
	if m.cursor >= len(m.visible()) {
		m.cursor = 0
	}
	return m
}

func (m sidebarModel) visible() []api.Project {
	keyword := m.search.Value()
	if keyword == "" {
		return m.projects
	}
	var out []api.Project
	for _, p := range m.projects {
		if filter.MatchKeyword(p.Name, keyword) {
			out = append(out, p)
		}
	}
	return out
}

func (m sidebarModel) scoped(name string) bool {
	_, ok := m.scopeSet[name]
	return ok
}

// toggleScope flips a project in or out of the scope, keeping insertion
// order for the names that remain.
func (m sidebarModel) toggleScope(name string) sidebarModel {
	if m.scoped(name) {
		delete(m.scopeSet, name)
		for i, n := range m.scope {
			if n == name {
				m.scope = append(m.scope[:i:i], m.scope[i+1:]...)
				break
			}
		}
		return m
	}
	m.scopeSet[name] = struct{}{}
	m.scope = append(m.scope, name)
	return m
}

// update handles input while the sidebar has focus. The second return
// reports whether the scope changed, which obliges the app to refetch.
func (m sidebarModel) update(msg tea.Msg) (sidebarModel, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}
	switch km.String() {
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil, false
	case "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil, false
	case "enter":
		rows := m.visible()
		if m.cursor < len(rows) {
			m = m.toggleScope(rows[m.cursor].Name)
			return m, nil, true
		}
		return m, nil, false
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.cursor >= len(m.visible()) {
		m.cursor = 0
	}
	return m, cmd, false
}

func (m sidebarModel) focus() (sidebarModel, tea.Cmd) {
	return m, m.search.Focus()
}

func (m sidebarModel) blur() sidebarModel {
	m.search.Blur()
	return m
}

func (m sidebarModel) view(height int, focused bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Projects"))
	if len(m.scope) > 0 {
		b.WriteString(accentStyle.Render(fmt.Sprintf(" (%d scoped)", len(m.scope))))
	}
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(mutedStyle.Render("loading..."))
	case m.errText != "":
		b.WriteString(errorStyle.Render(m.errText))
	default:
		rows := m.visible()
		limit := height - 6
		if limit < 1 {
			limit = 1
		}
		start := 0
		if m.cursor >= limit {
			start = m.cursor - limit + 1
		}
		for i := start; i < len(rows) && i < start+limit; i++ {
			mark := "[ ]"
			if m.scoped(rows[i].Name) {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s", mark, pad(rows[i].Name, 22))
			switch {
			case i == m.cursor && focused:
				line = selectedRowStyle.Render("> " + line)
			case m.scoped(rows[i].Name):
				line = markedRowStyle.Render("  " + line)
			default:
				line = normalRowStyle.Render("  " + line)
			}
			b.WriteString(line + "\n")
		}
	}

	style := panelStyle
	if focused {
		style = activePanelStyle
	}
	return style.Height(height).Render(b.String())
}
