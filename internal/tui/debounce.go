package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
)

// debouncedInput wraps a text input with trailing-edge debouncing. Every
// edit bumps the generation counter and schedules a tick carrying it; only
// the tick matching the current generation commits, so a burst of edits
// settles into a single commit after the quiet window.
type debouncedInput struct {
	input     textinput.Model
	field     string
	label     string
	quiet     time.Duration
	gen       uint64
	committed string
}

func newDebouncedInput(field, label, placeholder string, quiet time.Duration) debouncedInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 120
	ti.Width = 18
	return debouncedInput{
		input: ti,
		field: field,
		label: label,
		quiet: quiet,
	}
}

func (d debouncedInput) update(msg tea.Msg, col api.Collection) (debouncedInput, tea.Cmd) {
	before := d.input.Value()
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	if d.input.Value() == before {
		return d, cmd
	}
	d.gen++
	gen := d.gen
	tick := tea.Tick(d.quiet, func(time.Time) tea.Msg {
		return debounceFireMsg{collection: col, field: d.field, gen: gen}
	})
	return d, tea.Batch(cmd, tick)
}

// fire resolves a trailing-edge tick. Stale generations and values already
// committed are inert.
func (d debouncedInput) fire(msg debounceFireMsg) (debouncedInput, string, bool) {
	if msg.field != d.field || msg.gen != d.gen {
		return d, "", false
	}
	value := d.input.Value()
	if value == d.committed {
		return d, "", false
	}
	d.committed = value
	return d, value, true
}

// sync overwrites the input from an external source, cancelling any pending
// fire by bumping the generation.
func (d debouncedInput) sync(value string) debouncedInput {
	d.input.SetValue(value)
	d.committed = value
	d.gen++
	return d
}

func (d debouncedInput) view(focused bool) string {
	label := mutedStyle.Render(d.label + ":")
	if focused {
		label = highlightStyle.Render(d.label + ":")
	}
	return label + " " + d.input.View()
}

// filterBar groups the debounced inputs of one collection view and manages
// focus between them.
type filterBar struct {
	collection api.Collection
	inputs     []debouncedInput
	focus      int
	active     bool
}

func newFilterBar(col api.Collection, inputs ...debouncedInput) filterBar {
	return filterBar{collection: col, inputs: inputs}
}

func (b filterBar) activate() (filterBar, tea.Cmd) {
	b.active = true
	return b, b.inputs[b.focus].input.Focus()
}

func (b filterBar) deactivate() filterBar {
	b.active = false
	for i := range b.inputs {
		b.inputs[i].input.Blur()
	}
	return b
}

func (b filterBar) update(msg tea.Msg) (filterBar, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab", "down", "enter":
			return b.cycle(1)
		case "shift+tab", "up":
			return b.cycle(-1)
		}
	}
	var cmd tea.Cmd
	b.inputs[b.focus], cmd = b.inputs[b.focus].update(msg, b.collection)
	return b, cmd
}

func (b filterBar) cycle(dir int) (filterBar, tea.Cmd) {
	b.inputs[b.focus].input.Blur()
	b.focus = (b.focus + dir + len(b.inputs)) % len(b.inputs)
	return b, b.inputs[b.focus].input.Focus()
}

// fire routes a debounce tick to the owning input.
func (b filterBar) fire(msg debounceFireMsg) (filterBar, string, string, bool) {
	for i := range b.inputs {
		next, value, ok := b.inputs[i].fire(msg)
		b.inputs[i] = next
		if ok {
			return b, b.inputs[i].field, value, true
		}
	}
	return b, "", "", false
}

// syncFrom refreshes every input from the filter's current values,
// cancelling pending fires.
func (b filterBar) syncFrom(get func(field string) string) filterBar {
	for i := range b.inputs {
		b.inputs[i] = b.inputs[i].sync(get(b.inputs[i].field))
	}
	return b
}

func (b filterBar) setQuiet(d time.Duration) filterBar {
	for i := range b.inputs {
		b.inputs[i].quiet = d
	}
	return b
}

func (b filterBar) view() string {
	parts := make([]string, len(b.inputs))
	for i, in := range b.inputs {
		parts[i] = in.view(b.active && i == b.focus)
	}
	return strings.Join(parts, "   ")
}
