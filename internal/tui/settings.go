package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	debounceMs  *string
	clearOnExp  *string
	downloadDir *string
}

func newSettingsModel(s *store.Store) settingsModel {
	dm, ce, dd := "", "", ""
	return settingsModel{
		store:       s,
		debounceMs:  &dm,
		clearOnExp:  &ce,
		downloadDir: &dd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.debounceMs = s.getVal("debounce_ms", "1500")
	*s.clearOnExp = s.getVal("clear_selection_after_export", "false")
	*s.downloadDir = s.getVal("download_dir", "")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Filter debounce (ms)").Value(s.debounceMs).
				Validate(func(v string) error {
					if _, err := strconv.Atoi(v); err != nil {
						return fmt.Errorf("must be a whole number of milliseconds")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Clear selection after export").
				Options(
					huh.NewOption("No", "false"),
					huh.NewOption("Yes", "true"),
				).Value(s.clearOnExp),
			huh.NewInput().Title("Download directory (empty = home)").Value(s.downloadDir),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: "Saving settings failed: " + err.Error(), isError: true}
			}
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg {
			return settingsSavedMsg{debounce: s.store.DebounceInterval()}
		})
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	if err := s.store.SetSetting("debounce_ms", *s.debounceMs); err != nil {
		return err
	}
	if err := s.store.SetSetting("clear_selection_after_export", *s.clearOnExp); err != nil {
		return err
	}
	return s.store.SetSetting("download_dir", *s.downloadDir)
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")
	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(30).Render(setting.Key)
		value := setting.Value
		if value == "" {
			value = "(unset)"
		}
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
