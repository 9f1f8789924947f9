package filter

import (
	"net/url"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
)

// InvoiceFilter is the complete set of invoice constraints. A zero value
// means no constraint on any field.
type InvoiceFilter struct {
	FileNameKeyword string
	StartDate       string // inclusive lower bound, YYYY-MM-DD
	EndDate         string // inclusive upper bound, YYYY-MM-DD
	FolderTypes     FolderTypes
}

// Set assigns one named field. Unknown names are ignored so a stale commit
// from a torn-down input cannot corrupt the filter. Field names follow the
// backend's query parameters.
func (f *InvoiceFilter) Set(name, value string) {
	switch name {
	case "FileNameKeyword":
		f.FileNameKeyword = value
	case "startDate":
		f.StartDate = value
	case "endDate":
		f.EndDate = value
	}
}

// Get returns the current value of one named field.
func (f InvoiceFilter) Get(name string) string {
	switch name {
	case "FileNameKeyword":
		return f.FileNameKeyword
	case "startDate":
		return f.StartDate
	case "endDate":
		return f.EndDate
	}
	return ""
}

// Reset clears every field, toggle group included.
func (f *InvoiceFilter) Reset() { *f = InvoiceFilter{} }

// Match reports whether an invoice satisfies the filter. When the folder-type
// group has any option checked, the group alone decides; otherwise scalar
// constraints are AND-combined. Date bounds are inclusive and compare ISO
// dates lexically. An invoice without a date passes any stated bound: the
// list endpoint omits the date column, so the backend has already applied
// the bounds to every row it returned.
func (f InvoiceFilter) Match(inv api.Invoice) bool {
	if f.FolderTypes.Any() {
		return f.FolderTypes.Match(inv.FolderType)
	}
	if !MatchKeyword(inv.FileName, f.FileNameKeyword) {
		return false
	}
	if f.StartDate != "" && inv.Date != "" && inv.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && inv.Date != "" && inv.Date > f.EndDate {
		return false
	}
	return true
}

// Values serializes the filter as backend query parameters, including only
// non-empty entries.
func (f InvoiceFilter) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "FileNameKeyword", f.FileNameKeyword)
	setNonEmpty(v, "startDate", f.StartDate)
	setNonEmpty(v, "endDate", f.EndDate)
	f.FolderTypes.apply(v)
	return v
}
