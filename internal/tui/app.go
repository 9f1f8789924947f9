package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/export"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/filter"
	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/store"
)

// App is the root Bubble Tea model. It owns fetch sequencing: every issued
// fetch carries a per-collection sequence number, and only the reply
// matching the latest issue may land. Anything else raced a newer fetch and
// is dropped.
type App struct {
	client *api.Client
	store  *store.Store
	coord  *export.Coordinator
	logger *zap.Logger

	width  int
	height int

	activeView     viewState
	showHelp       bool
	sidebarFocused bool

	seq map[api.Collection]uint64

	sidebar  sidebarModel
	invoices invoicesModel
	elements elementsModel
	projects projectsModel
	summary  summaryModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(client *api.Client, st *store.Store, coord *export.Coordinator, logger *zap.Logger) App {
	h := help.New()
	h.ShowAll = false

	quiet := st.DebounceInterval()
	return App{
		client:     client,
		store:      st,
		coord:      coord,
		logger:     logger,
		activeView: viewInvoices,
		seq:        make(map[api.Collection]uint64),
		sidebar:    newSidebar(),
		invoices:   newInvoicesModel(quiet),
		elements:   newElementsModel(client, quiet),
		projects:   newProjectsModel(quiet),
		summary:    newSummaryModel(),
		settings:   newSettingsModel(st),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadScopeCmd(),
		a.fetchCmd(api.CollectionInvoices),
		a.settings.refresh(),
	)
}

// loadScopeCmd fetches the unscoped project universe for the sidebar.
func (a App) loadScopeCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ps, err := client.FetchProjects(context.Background(), nil, nil)
		return scopeProjectsMsg{projects: ps, err: err}
	}
}

// fetchCmd issues a fetch for one collection, snapshotting the scope and
// filter values at issue time. Bumping the sequence here is what
// invalidates every fetch still in flight for the collection.
func (a *App) fetchCmd(col api.Collection) tea.Cmd {
	a.seq[col]++
	seq := a.seq[col]
	scope := append([]string(nil), a.sidebar.scope...)
	client := a.client

	switch col {
	case api.CollectionInvoices:
		query := a.invoices.filter.Values()
		return func() tea.Msg {
			rows, err := client.FetchInvoices(context.Background(), scope, query)
			return collectionDataMsg{collection: col, seq: seq, invoices: rows, err: err}
		}
	case api.CollectionElements:
		query := a.elements.filter.Values()
		return func() tea.Msg {
			rows, err := client.FetchElements(context.Background(), scope, query)
			return collectionDataMsg{collection: col, seq: seq, elements: rows, err: err}
		}
	case api.CollectionProjects:
		query := a.projects.filter.Values()
		return func() tea.Msg {
			rows, err := client.FetchProjects(context.Background(), scope, query)
			return collectionDataMsg{collection: col, seq: seq, projects: rows, err: err}
		}
	}
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4
		a.summary.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case scopeProjectsMsg:
		a.sidebar = a.sidebar.setProjects(msg.projects, msg.err)
		return a, nil

	case settingsDataMsg:
		// Routed here so the Init refresh lands even when another view is
		// active.
		a.settings.settings = msg.settings
		return a, nil

	case collectionDataMsg:
		return a.applyCollectionData(msg)

	case debounceFireMsg:
		return a.applyDebounceFire(msg)

	case subelementsMsg:
		a.elements = a.elements.setSubelements(msg)
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		if msg.clear {
			a.selectionFor(msg.collection).clear()
		}
		return a, nil

	case settingsSavedMsg:
		a.invoices.bar = a.invoices.bar.setQuiet(msg.debounce)
		a.elements.bar = a.elements.bar.setQuiet(msg.debounce)
		a.projects.bar = a.projects.bar.setQuiet(msg.debounce)
		a.status = "Settings saved"
		a.statusErr = false
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	return a.updateActiveView(msg)
}

// applyCollectionData lands one fetch reply, unless a newer fetch for the
// same collection has been issued since.
func (a App) applyCollectionData(msg collectionDataMsg) (tea.Model, tea.Cmd) {
	if msg.seq != a.seq[msg.collection] {
		return a, nil
	}
	switch msg.collection {
	case api.CollectionInvoices:
		a.invoices = a.invoices.setData(msg.invoices, msg.err)
	case api.CollectionElements:
		a.elements = a.elements.setData(msg.elements, msg.err)
		a.summary = a.summary.setData(a.elements.visible())
	case api.CollectionProjects:
		a.projects = a.projects.setData(msg.projects, msg.err)
	}
	if msg.err != nil {
		a.status = readableError(msg.err)
		a.statusErr = true
	}
	return a, nil
}

func (a App) applyDebounceFire(msg debounceFireMsg) (tea.Model, tea.Cmd) {
	var refetch bool
	switch msg.collection {
	case api.CollectionInvoices:
		a.invoices, refetch = a.invoices.fire(msg)
	case api.CollectionElements:
		a.elements, refetch = a.elements.fire(msg)
	case api.CollectionProjects:
		a.projects, refetch = a.projects.fire(msg)
	}
	if !refetch {
		return a, nil
	}
	return a, a.fetchCmd(msg.collection)
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Settings form captures everything.
	if a.activeView == viewSettings && a.settings.formActive {
		return a.updateActiveView(msg)
	}

	if a.sidebarFocused {
		if msg.String() == "esc" {
			a.sidebarFocused = false
			a.sidebar = a.sidebar.blur()
			return a, nil
		}
		var cmd tea.Cmd
		var changed bool
		a.sidebar, cmd, changed = a.sidebar.update(msg)
		if !changed {
			return a, cmd
		}
		return a, tea.Batch(cmd, a.refetchForScopeChange())
	}

	// Filter bars and dialogs see raw keys before global bindings.
	if a.isCapturing() {
		return a.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Scope):
		a.sidebarFocused = true
		var cmd tea.Cmd
		a.sidebar, cmd = a.sidebar.focus()
		return a, cmd
	case key.Matches(msg, keys.Export):
		return a, a.exportActive()
	case key.Matches(msg, keys.Copy):
		return a, a.copyFilters()
	case key.Matches(msg, keys.Refresh):
		return a, a.refreshActive()
	case key.Matches(msg, keys.Invoices):
		return a.switchView(viewInvoices)
	case key.Matches(msg, keys.Elements):
		return a.switchView(viewElements)
	case key.Matches(msg, keys.Projects):
		return a.switchView(viewProjects)
	case key.Matches(msg, keys.Summary):
		return a.switchView(viewSummary)
	case key.Matches(msg, keys.Settings):
		return a.switchView(viewSettings)
	case key.Matches(msg, keys.Tab):
		if a.activeView == viewSummary {
			// Summary owns tab for its grouping toggle.
			break
		}
		return a.switchView((a.activeView + 1) % 5)
	}

	return a.updateActiveView(msg)
}

// switchView activates a view and refetches its collection so the rows
// reflect the current scope and filters.
func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	switch v {
	case viewSummary:
		a.summary = a.summary.setData(a.elements.visible())
		return a, nil
	case viewSettings:
		return a, a.settings.refresh()
	}
	col, ok := collectionForView(v)
	if !ok {
		return a, nil
	}
	return a, a.fetchCmd(col)
}

// refetchForScopeChange refreshes the collections a scope edit can affect:
// the active one, plus elements eagerly because the summary derives from
// them.
func (a App) refetchForScopeChange() tea.Cmd {
	var cmds []tea.Cmd
	if col, ok := collectionForView(a.activeView); ok && col != api.CollectionElements {
		cmds = append(cmds, a.fetchCmd(col))
	}
	cmds = append(cmds, a.fetchCmd(api.CollectionElements))
	return tea.Batch(cmds...)
}

func (a App) refreshActive() tea.Cmd {
	if a.activeView == viewSummary {
		return a.fetchCmd(api.CollectionElements)
	}
	col, ok := collectionForView(a.activeView)
	if !ok {
		return nil
	}
	return a.fetchCmd(col)
}

func (a App) isCapturing() bool {
	switch a.activeView {
	case viewInvoices:
		return a.invoices.bar.active
	case viewElements:
		return a.elements.bar.active || a.elements.detailOpen
	case viewProjects:
		return a.projects.bar.active
	}
	return false
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, isKey := msg.(tea.KeyMsg)

	switch a.activeView {
	case viewInvoices:
		if !isKey {
			return a, nil
		}
		var cmd tea.Cmd
		var refetch bool
		a.invoices, cmd, refetch = a.invoices.update(km)
		if refetch {
			return a, tea.Batch(cmd, a.fetchCmd(api.CollectionInvoices))
		}
		return a, cmd
	case viewElements:
		if !isKey {
			return a, nil
		}
		var cmd tea.Cmd
		var refetch bool
		a.elements, cmd, refetch = a.elements.update(km)
		if refetch {
			return a, tea.Batch(cmd, a.fetchCmd(api.CollectionElements))
		}
		return a, cmd
	case viewProjects:
		if !isKey {
			return a, nil
		}
		var cmd tea.Cmd
		var refetch bool
		a.projects, cmd, refetch = a.projects.update(km)
		if refetch {
			return a, tea.Batch(cmd, a.fetchCmd(api.CollectionProjects))
		}
		return a, cmd
	case viewSummary:
		if isKey {
			a.summary = a.summary.update(km)
		}
		return a, nil
	case viewSettings:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) selectionFor(col api.Collection) selectionTracker {
	switch col {
	case api.CollectionInvoices:
		return a.invoices.sel
	case api.CollectionElements:
		return a.elements.sel
	case api.CollectionProjects:
		return a.projects.sel
	}
	return nil
}

// exportActive downloads the active view's selection as a spreadsheet.
func (a App) exportActive() tea.Cmd {
	col, ok := collectionForView(a.activeView)
	if !ok {
		return func() tea.Msg {
			return statusMsg{text: "Nothing to export in this view", isError: true}
		}
	}
	ids := a.selectionFor(col).sorted()
	clearAfter := a.store.ClearSelectionAfterExport()
	coord := a.coord
	logger := a.logger
	return func() tea.Msg {
		res, err := coord.ExportSelection(context.Background(), col, ids)
		if err != nil {
			logger.Warn("export failed", zap.String("collection", string(col)), zap.Error(err))
			return statusMsg{text: readableError(err), isError: true}
		}
		return exportDoneMsg{collection: col, path: res.Path, clear: clearAfter}
	}
}

// copyFilters puts a SQL-ish rendition of the current filters on the system
// clipboard.
func (a App) copyFilters() tea.Cmd {
	text := filter.FormatSQL(a.projects.filter, a.invoices.filter, a.elements.filter)
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: "Clipboard unavailable: " + err.Error(), isError: true}
		}
		return statusMsg{text: "Filters copied to clipboard"}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch a.activeView {
	case viewInvoices:
		content = a.withSidebar(a.invoices.view(a.width, contentHeight), contentHeight)
	case viewElements:
		content = a.withSidebar(a.elements.view(a.width, contentHeight), contentHeight)
	case viewProjects:
		content = a.withSidebar(a.projects.view(a.width, contentHeight), contentHeight)
	case viewSummary:
		content = a.summary.view()
	case viewSettings:
		content = a.settings.view()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) withSidebar(content string, height int) string {
	side := a.sidebar.view(height-2, a.sidebarFocused)
	return lipgloss.JoinHorizontal(lipgloss.Top, side, " ", content)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("invoice-db")
	scopeInfo := ""
	if n := len(a.sidebar.scope); n > 0 {
		scopeInfo = accentStyle.Render(fmt.Sprintf(" ⊂ %d scoped", n))
	}

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(scopeInfo) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, scopeInfo, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = successStyle.Render(" " + a.status)
		}
	}

	selInfo := ""
	if col, ok := collectionForView(a.activeView); ok {
		if n := a.selectionFor(col).count(); n > 0 {
			selInfo = accentStyle.Render(fmt.Sprintf("%d selected ", n))
		}
	}

	left := footerStyle.Render(helpView)
	right := selInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
