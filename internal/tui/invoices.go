package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/filter"
)

type invoicesModel struct {
	rows    []api.Invoice
	cursor  int
	filter  filter.InvoiceFilter
	bar     filterBar
	sel     selectionTracker
	loading bool
	errText string
}

func newInvoicesModel(quiet time.Duration) invoicesModel {
	return invoicesModel{
		bar: newFilterBar(api.CollectionInvoices,
			newDebouncedInput("FileNameKeyword", "File", "invoice name", quiet),
			newDebouncedInput("startDate", "From", "YYYY-MM-DD", quiet),
			newDebouncedInput("endDate", "To", "YYYY-MM-DD", quiet),
		),
		sel:     newSelection(),
		loading: true,
	}
}

func (m invoicesModel) setData(rows []api.Invoice, err error) invoicesModel {
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

// visible re-applies the filter locally so rows settle instantly while a
// fetch is in flight.
func (m invoicesModel) visible() []api.Invoice {
	var out []api.Invoice
	for _, inv := range m.rows {
		if m.filter.Match(inv) {
			out = append(out, inv)
		}
	}
	return out
}

func (m invoicesModel) update(msg tea.KeyMsg) (invoicesModel, tea.Cmd, bool) {
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
			m.sel.toggle(rows[m.cursor].ID.String())
		}
	case "ctrl+a":
		rows := m.visible()
		ids := make([]string, len(rows))
		for i, inv := range rows {
			ids[i] = inv.ID.String()
		}
		m.sel.setAll(ids)
	case "u":
		m.sel.clear()
	case "a":
		m.filter.FolderTypes.Toggle("adicionals")
		return m, nil, true
	case "p":
		m.filter.FolderTypes.Toggle("pressupost")
		return m, nil, true
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

// fire applies a settled debounce tick to the filter; true means the fetch
// orchestrator owes a refetch.
func (m invoicesModel) fire(msg debounceFireMsg) (invoicesModel, bool) {
	bar, field, value, ok := m.bar.fire(msg)
	m.bar = bar
	if !ok {
		return m, false
	}
	m.filter.Set(field, value)
	return m, true
}

func (m invoicesModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(m.bar.view())
	b.WriteString("   " + folderToggleView(m.filter.FolderTypes))
	b.WriteString("\n\n")

	b.WriteString(tableHeaderStyle.Render(
		fmt.Sprintf("   %s %s %s %s",
			pad("File", 42), pad("Project", 28), pad("Folder", 14), pad("Date", 10))))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(mutedStyle.Render("loading..."))
	case m.errText != "":
		b.WriteString(errorStyle.Render(m.errText))
	default:
		rows := m.visible()
		if len(rows) == 0 {
			b.WriteString(mutedStyle.Render("no invoices match"))
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
			inv := rows[i]
			mark := "[ ]"
			if m.sel.contains(inv.ID.String()) {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s %s %s %s",
				mark, pad(inv.FileName, 42), pad(inv.ProjectName, 28),
				pad(inv.FolderType, 14), pad(inv.Date, 10))
			b.WriteString(renderRow(line, i == m.cursor, m.sel.contains(inv.ID.String())) + "\n")
		}
	}
	return b.String()
}

func folderToggleView(ft filter.FolderTypes) string {
	render := func(checked bool, label string) string {
		if checked {
			return accentStyle.Render("[x] " + label)
		}
		return mutedStyle.Render("[ ] " + label)
	}
	return render(ft.Adicionals, "adicionals") + " " + render(ft.Pressupost, "pressupost")
}

func renderRow(line string, cursor, selected bool) string {
	switch {
	case cursor:
		return selectedRowStyle.Render("> " + line)
	case selected:
		return markedRowStyle.Render("  " + line)
	}
	return normalRowStyle.Render("  " + line)
}
