package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
)

// viewState represents the currently active view.
type viewState int

const (
	viewInvoices viewState = iota
	viewElements
	viewProjects
	viewSummary
	viewSettings
)

var viewNames = []string{"Invoices", "Elements", "Projects", "Summary", "Settings"}

// collectionForView maps a view to its remote collection. Summary and
// Settings have none.
func collectionForView(v viewState) (api.Collection, bool) {
	switch v {
	case viewInvoices:
		return api.CollectionInvoices, true
	case viewElements:
		return api.CollectionElements, true
	case viewProjects:
		return api.CollectionProjects, true
	}
	return "", false
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// collectionDataMsg carries one settled fetch batch. seq is compared against
// the latest issued sequence for the collection; stale batches are dropped
// without touching state.
type collectionDataMsg struct {
	collection api.Collection
	seq        uint64
	projects   []api.Project
	invoices   []api.Invoice
	elements   []api.Element
	err        error
}

// debounceFireMsg is the trailing edge of one filter input's quiet window.
type debounceFireMsg struct {
	collection api.Collection
	field      string
	gen        uint64
}

// scopeProjectsMsg delivers the project universe shown in the scope sidebar.
type scopeProjectsMsg struct {
	projects []api.Project
	err      error
}

// subelementsMsg delivers the measurement rows for an open element dialog.
type subelementsMsg struct {
	elementID int64
	subs      []api.Subelement
	err       error
}

type exportDoneMsg struct {
	collection api.Collection
	path       string
	clear      bool
}

type settingsSavedMsg struct {
	debounce time.Duration
}

// --- Helpers ---

// readableError renders an engine error for the status bar.
func readableError(err error) string {
	if errors.Is(err, api.ErrEmptySelection) {
		return "Please select items to download"
	}
	var appErr *api.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var transErr *api.TransportError
	if errors.As(err, &transErr) {
		return transErr.Error()
	}
	return err.Error()
}

// pad truncates s to width runes, then right-pads with spaces.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width > 1 {
			return string(r[:width-1]) + "…"
		}
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func formatPrice(f api.Float) string {
	if !f.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", f.Value)
}
