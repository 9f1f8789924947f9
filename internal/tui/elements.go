package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/filter"
)

type elementsModel struct {
	client *api.Client

	rows    []api.Element
	cursor  int
	filter  filter.ElementFilter
	bar     filterBar
	sel     selectionTracker
	loading bool
	errText string

	// detail dialog
	detailOpen  bool
	detail      api.Element
	subs        []api.Subelement
	subsLoading bool
	subsErr     string
}

func newElementsModel(client *api.Client, quiet time.Duration) elementsModel {
	return elementsModel{
		client: client,
		bar: newFilterBar(api.CollectionElements,
			newDebouncedInput("nameKeyword", "Name", "element", quiet),
			newDebouncedInput("invoiceNameKeyword", "Invoice", "invoice", quiet),
			newDebouncedInput("invoiceid", "Inv ID", "id", quiet),
			newDebouncedInput("minPrice", "Min", "0.00", quiet),
			newDebouncedInput("maxPrice", "Max", "0.00", quiet),
		),
		sel:     newSelection(),
		loading: true,
	}
}

func (m elementsModel) setData(rows []api.Element, err error) elementsModel {
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

func (m elementsModel) visible() []api.Element {
	var out []api.Element
	for _, el := range m.rows {
		if m.filter.Match(el) {
			out = append(out, el)
		}
	}
	return out
}

// openDetail shows the measurement dialog for the element under the cursor,
// lazily fetching subelements when the element claims to have any.
func (m elementsModel) openDetail() (elementsModel, tea.Cmd) {
	rows := m.visible()
	if m.cursor >= len(rows) {
		return m, nil
	}
	el := rows[m.cursor]
	m.detailOpen = true
	m.detail = el
	m.subs = nil
	m.subsErr = ""
	if !el.HasSubelements.Valid || !el.HasSubelements.Value || !el.ID.Valid {
		m.subsLoading = false
		return m, nil
	}
	m.subsLoading = true
	id := el.ID.Value
	client := m.client
	return m, func() tea.Msg {
		subs, err := client.Subelements(context.Background(), id)
		return subelementsMsg{elementID: id, subs: subs, err: err}
	}
}

func (m elementsModel) setSubelements(msg subelementsMsg) elementsModel {
	// a reply for a dialog that was closed or replaced is stale
	if !m.detailOpen || !m.detail.ID.Valid || m.detail.ID.Value != msg.elementID {
		return m
	}
	m.subsLoading = false
	if msg.err != nil {
		m.subsErr = readableError(msg.err)
		return m
	}
	m.subs = msg.subs
	return m
}

func (m elementsModel) update(msg tea.KeyMsg) (elementsModel, tea.Cmd, bool) {
	if m.detailOpen {
		switch msg.String() {
		case "esc", "enter", "q":
			m.detailOpen = false
		}
		return m, nil, false
	}
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
	case "enter":
		m, cmd := m.openDetail()
		return m, cmd, false
	case " ":
		rows := m.visible()
		if m.cursor < len(rows) {
			m.sel.toggle(rows[m.cursor].ID.String())
		}
	case "ctrl+a":
		rows := m.visible()
		ids := make([]string, len(rows))
		for i, el := range rows {
			ids[i] = el.ID.String()
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

func (m elementsModel) fire(msg debounceFireMsg) (elementsModel, bool) {
	bar, field, value, ok := m.bar.fire(msg)
	m.bar = bar
	if !ok {
		return m, false
	}
	m.filter.Set(field, value)
	return m, true
}

func (m elementsModel) view(width, height int) string {
	if m.detailOpen {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(m.bar.view())
	b.WriteString("   " + folderToggleView(m.filter.FolderTypes))
	b.WriteString("\n\n")

	b.WriteString(tableHeaderStyle.Render(
		fmt.Sprintf("   %s %s %s %s %s",
			pad("Element", 40), pad("Invoice", 26), pad("Qty", 8), pad("Unit €", 9), pad("Total €", 10))))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(mutedStyle.Render("loading..."))
	case m.errText != "":
		b.WriteString(errorStyle.Render(m.errText))
	default:
		rows := m.visible()
		if len(rows) == 0 {
			b.WriteString(mutedStyle.Render("no elements match"))
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
			el := rows[i]
			mark := "[ ]"
			if m.sel.contains(el.ID.String()) {
				mark = "[x]"
			}
			name := el.Name
			if el.HasSubelements.Valid && el.HasSubelements.Value {
				name += " +"
			}
			line := fmt.Sprintf("%s %s %s %s %s %s",
				mark, pad(name, 40), pad(el.InvoiceName, 26),
				pad(formatPrice(el.Quantity), 8), pad(formatPrice(el.PricePerUnit), 9),
				pad(formatPrice(el.TotalPrice), 10))
			b.WriteString(renderRow(line, i == m.cursor, m.sel.contains(el.ID.String())) + "\n")
		}
	}
	return b.String()
}

func (m elementsModel) detailView() string {
	el := m.detail
	var b strings.Builder
	b.WriteString(titleStyle.Render(el.Name) + "\n\n")
	b.WriteString(mutedStyle.Render("Invoice:     ") + el.InvoiceName + "\n")
	b.WriteString(mutedStyle.Render("Chapter:     ") + el.ChapterTitle + "\n")
	if el.SubchapterTitle != "" {
		b.WriteString(mutedStyle.Render("Subchapter:  ") + el.SubchapterTitle + "\n")
	}
	b.WriteString(mutedStyle.Render("Quantity:    ") + formatPrice(el.Quantity) + " " + el.Unit + "\n")
	b.WriteString(mutedStyle.Render("Unit price:  ") + formatPrice(el.PricePerUnit) + "\n")
	b.WriteString(mutedStyle.Render("Discount:    ") + formatPrice(el.Discount) + "\n")
	b.WriteString(mutedStyle.Render("Total:       ") + accentStyle.Render(formatPrice(el.TotalPrice)) + "\n")
	if el.Description != "" {
		b.WriteString("\n" + el.Description + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("Measurements") + "\n")
	switch {
	case m.subsLoading:
		b.WriteString(mutedStyle.Render("loading..."))
	case m.subsErr != "":
		b.WriteString(errorStyle.Render(m.subsErr))
	case len(m.subs) == 0:
		b.WriteString(mutedStyle.Render("none"))
	default:
		b.WriteString(tableHeaderStyle.Render(
			fmt.Sprintf("%s %s %s %s %s %s %s",
				pad("Title", 32), pad("N", 6), pad("L", 6), pad("H", 6), pad("W", 6),
				pad("Unit", 6), pad("Total", 9))) + "\n")
		for _, s := range m.subs {
			b.WriteString(fmt.Sprintf("%s %s %s %s %s %s %s\n",
				pad(s.Title, 32), pad(formatPrice(s.N), 6), pad(formatPrice(s.L), 6),
				pad(formatPrice(s.H), 6), pad(formatPrice(s.W), 6),
				pad(s.Unit, 6), pad(formatPrice(s.TotalPrice), 9)))
		}
	}
	b.WriteString("\n" + footerStyle.Render("esc: close"))
	return panelStyle.Render(b.String())
}
