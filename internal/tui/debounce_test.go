package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
)

func typeRune(t *testing.T, d debouncedInput, r rune) (debouncedInput, tea.Cmd) {
	t.Helper()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	return d.update(msg, api.CollectionInvoices)
}

// ============================================================
// Trailing-edge debounce
// ============================================================

func TestDebounceEditSchedulesFire(t *testing.T) {
	d := newDebouncedInput("q", "Q", "", time.Millisecond)
	d.input.Focus()

	d, cmd := typeRune(t, d, 'a')
	if cmd == nil {
		t.Fatal("an edit must schedule a trailing tick")
	}
	if d.gen != 1 {
		t.Fatalf("gen = %d", d.gen)
	}
}

func TestDebounceBurstOnlyLatestFires(t *testing.T) {
	d := newDebouncedInput("q", "Q", "", time.Millisecond)
	d.input.Focus()

	d, _ = typeRune(t, d, 'a')
	d, _ = typeRune(t, d, 'b')
	d, _ = typeRune(t, d, 'c')

	// The ticks for generations 1 and 2 are stale and must be inert.
	for _, gen := range []uint64{1, 2} {
		var ok bool
		d, _, ok = d.fire(debounceFireMsg{field: "q", gen: gen})
		if ok {
			t.Fatalf("stale generation %d fired", gen)
		}
	}

	d, value, ok := d.fire(debounceFireMsg{field: "q", gen: 3})
	if !ok {
		t.Fatal("latest generation must fire")
	}
	if value != "abc" {
		t.Fatalf("fired value = %q", value)
	}
}

func TestDebounceCommitIsIdempotent(t *testing.T) {
	d := newDebouncedInput("q", "Q", "", time.Millisecond)
	d.input.Focus()

	d, _ = typeRune(t, d, 'a')
	d, _, ok := d.fire(debounceFireMsg{field: "q", gen: 1})
	if !ok {
		t.Fatal("first fire must commit")
	}
	// A duplicate tick for the same generation carries an already
	// committed value.
	if _, _, ok := d.fire(debounceFireMsg{field: "q", gen: 1}); ok {
		t.Fatal("duplicate fire must be inert")
	}
}

func TestDebounceSyncCancelsPending(t *testing.T) {
	d := newDebouncedInput("q", "Q", "", time.Millisecond)
	d.input.Focus()

	d, _ = typeRune(t, d, 'a')
	d = d.sync("reset value")

	if _, _, ok := d.fire(debounceFireMsg{field: "q", gen: 1}); ok {
		t.Fatal("sync must invalidate the pending fire")
	}
	if d.input.Value() != "reset value" {
		t.Fatalf("value = %q", d.input.Value())
	}
}

func TestDebounceIgnoresOtherFields(t *testing.T) {
	d := newDebouncedInput("q", "Q", "", time.Millisecond)
	d.input.Focus()

	d, _ = typeRune(t, d, 'a')
	if _, _, ok := d.fire(debounceFireMsg{field: "other", gen: 1}); ok {
		t.Fatal("a fire for another field must be inert")
	}
}

// ============================================================
// Filter bar routing
// ============================================================

func TestFilterBarRoutesFireToOwningInput(t *testing.T) {
	bar := newFilterBar(api.CollectionInvoices,
		newDebouncedInput("first", "A", "", time.Millisecond),
		newDebouncedInput("second", "B", "", time.Millisecond),
	)
	bar, _ = bar.activate()

	// Type into the first input.
	bar, _ = bar.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	bar, field, value, ok := bar.fire(debounceFireMsg{field: "first", gen: 1})
	if !ok || field != "first" || value != "x" {
		t.Fatalf("fire = %q %q %v", field, value, ok)
	}
	if _, _, _, ok := bar.fire(debounceFireMsg{field: "second", gen: 1}); ok {
		t.Fatal("untouched input must not fire")
	}
}

func TestFilterBarSyncFrom(t *testing.T) {
	bar := newFilterBar(api.CollectionInvoices,
		newDebouncedInput("first", "A", "", time.Millisecond),
		newDebouncedInput("second", "B", "", time.Millisecond),
	)
	values := map[string]string{"first": "one", "second": "two"}
	bar = bar.syncFrom(func(field string) string { return values[field] })

	if got := bar.inputs[0].input.Value(); got != "one" {
		t.Fatalf("first = %q", got)
	}
	if got := bar.inputs[1].input.Value(); got != "two" {
		t.Fatalf("second = %q", got)
	}
}

// ============================================================
// Selection tracker
// ============================================================

func TestSelectionTracker(t *testing.T) {
	sel := newSelection()
	sel.toggle("3")
	sel.toggle("1")
	if !sel.contains("3") || sel.count() != 2 {
		t.Fatalf("sel = %v", sel.sorted())
	}

	sel.toggle("3")
	if sel.contains("3") {
		t.Fatal("toggle must deselect")
	}

	sel.setAll([]string{"5", "4"})
	got := sel.sorted()
	if len(got) != 2 || got[0] != "4" || got[1] != "5" {
		t.Fatalf("sorted = %v", got)
	}

	sel.clear()
	if sel.count() != 0 {
		t.Fatal("clear failed")
	}
}

func TestSelectionSharedAcrossCopies(t *testing.T) {
	// View models are copied on every update; the selection must be
	// shared state, not per-copy.
	sel := newSelection()
	copied := sel
	copied.toggle("9")
	if !sel.contains("9") {
		t.Fatal("copies must share the underlying selection")
	}
}
