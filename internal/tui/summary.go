package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
)

type summaryMode int

const (
	summaryByInvoice summaryMode = iota
	summaryByChapter
)

var chartPalette = []lipgloss.Color{
	"#4EA8DE", "#F4A261", "#2ECC71", "#E76F51", "#9B5DE5", "#F1C40F", "#2EC4B6", "#E74C3C",
}

// summaryModel charts the element rows currently resident in the elements
// view, grouped by invoice or by chapter. It is a pure derivation; it never
// fetches.
type summaryModel struct {
	width  int
	height int

	mode     summaryMode
	elements []api.Element
	groups   []summaryGroup

	chart barchart.Model
}

type summaryGroup struct {
	label string
	total float64
	count int
}

func newSummaryModel() summaryModel {
	return summaryModel{chart: barchart.New(60, 12)}
}

func (m *summaryModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m summaryModel) setData(els []api.Element) summaryModel {
	m.elements = els
	m.rebuild()
	return m
}

func (m summaryModel) update(msg tea.KeyMsg) summaryModel {
	if msg.String() == "tab" {
		if m.mode == summaryByInvoice {
			m.mode = summaryByChapter
		} else {
			m.mode = summaryByInvoice
		}
		m.rebuild()
	}
	return m
}

func (m *summaryModel) rebuild() {
	totals := make(map[string]*summaryGroup)
	var order []string
	for _, el := range m.elements {
		label := el.InvoiceName
		if m.mode == summaryByChapter {
			label = el.ChapterTitle
		}
		if label == "" {
			label = "(none)"
		}
		g, ok := totals[label]
		if !ok {
			g = &summaryGroup{label: label}
			totals[label] = g
			order = append(order, label)
		}
		if el.TotalPrice.Valid {
			g.total += el.TotalPrice.Value
		}
		g.count++
	}

	m.groups = m.groups[:0]
	for _, label := range order {
		m.groups = append(m.groups, *totals[label])
	}
	sort.SliceStable(m.groups, func(i, j int) bool {
		return m.groups[i].total > m.groups[j].total
	})

	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}
	m.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	limit := 8
	for i, g := range m.groups {
		if i >= limit {
			break
		}
		style := lipgloss.NewStyle().Foreground(chartPalette[i%len(chartPalette)])
		bars = append(bars, barchart.BarData{
			Label: pad(g.label, 8),
			Values: []barchart.BarValue{
				{Name: g.label, Value: g.total, Style: style},
			},
		})
	}
	if len(bars) == 0 {
		bars = append(bars, barchart.BarData{
			Label:  "-",
			Values: []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		})
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m summaryModel) view() string {
	w := m.width - 4

	invoiceTab := inactiveTabStyle.Render("By invoice")
	chapterTab := inactiveTabStyle.Render("By chapter")
	if m.mode == summaryByInvoice {
		invoiceTab = activeTabStyle.Render("By invoice")
	} else {
		chapterTab = activeTabStyle.Render("By chapter")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Summary"), "  ", invoiceTab, chapterTab, "  ",
		mutedStyle.Render(fmt.Sprintf("%d elements", len(m.elements))),
	)

	nav := mutedStyle.Render("  tab: switch grouping")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", m.renderTable(w), "", nav,
		),
	)
}

func (m summaryModel) renderTable(w int) string {
	if len(m.groups) == 0 {
		return mutedStyle.Render("  No elements loaded")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-40s %12s %8s", "Group", "Total €", "Rows")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 62))))
	for i, g := range m.groups {
		if i >= 10 {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(m.groups)-10)))
			break
		}
		dot := lipgloss.NewStyle().Foreground(chartPalette[i%len(chartPalette)]).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-38s %12.2f %8d", dot, pad(g.label, 38), g.total, g.count))
	}
	return strings.Join(rows, "\n")
}
