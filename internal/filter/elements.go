package filter

import (
	"net/url"
	"strconv"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
)

// ElementFilter is the complete set of element constraints. Numeric fields
// keep the raw input text; parsing happens at evaluation so a half-typed
// number never crashes the predicate.
type ElementFilter struct {
	NameKeyword        string
	InvoiceNameKeyword string
	InvoiceID          string
	MinPrice           string
	MaxPrice           string
	FolderTypes        FolderTypes
}

// Set assigns one named field. Unknown names are ignored.
func (f *ElementFilter) Set(name, value string) {
	switch name {
	case "nameKeyword":
		f.NameKeyword = value
	case "invoiceNameKeyword":
		f.InvoiceNameKeyword = value
	case "invoiceid":
		f.InvoiceID = value
	case "minPrice":
		f.MinPrice = value
	case "maxPrice":
		f.MaxPrice = value
	}
}

// Get returns the current value of one named field.
func (f ElementFilter) Get(name string) string {
	switch name {
	case "nameKeyword":
		return f.NameKeyword
	case "invoiceNameKeyword":
		return f.InvoiceNameKeyword
	case "invoiceid":
		return f.InvoiceID
	case "minPrice":
		return f.MinPrice
	case "maxPrice":
		return f.MaxPrice
	}
	return ""
}

// Reset clears every field, toggle group included.
func (f *ElementFilter) Reset() { *f = ElementFilter{} }

// Match reports whether an element satisfies the filter. The folder-type
// group short-circuits scalar constraints when active. Price bounds are
// inclusive; an element with a null price fails any stated bound. An
// unparseable price bound is treated as unconstrained, while an unparseable
// invoice id excludes everything, since an exact match against garbage can
// never hold.
func (f ElementFilter) Match(el api.Element) bool {
	if f.FolderTypes.Any() {
		return f.FolderTypes.Match(el.FolderType)
	}
	if !MatchKeyword(el.Name, f.NameKeyword) {
		return false
	}
	if !MatchKeyword(el.InvoiceName, f.InvoiceNameKeyword) {
		return false
	}
	if f.InvoiceID != "" {
		id, err := strconv.ParseInt(f.InvoiceID, 10, 64)
		if err != nil || !el.InvoiceID.Valid || el.InvoiceID.Value != id {
			return false
		}
	}
	if f.MinPrice != "" {
		if min, err := strconv.ParseFloat(f.MinPrice, 64); err == nil {
			if !el.PricePerUnit.Valid || el.PricePerUnit.Value < min {
				return false
			}
		}
	}
	if f.MaxPrice != "" {
		if max, err := strconv.ParseFloat(f.MaxPrice, 64); err == nil {
			if !el.PricePerUnit.Valid || el.PricePerUnit.Value > max {
				return false
			}
		}
	}
	return true
}

// Values serializes the filter as backend query parameters, including only
// non-empty entries.
func (f ElementFilter) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "nameKeyword", f.NameKeyword)
	setNonEmpty(v, "invoiceNameKeyword", f.InvoiceNameKeyword)
	setNonEmpty(v, "invoiceid", f.InvoiceID)
	setNonEmpty(v, "minPrice", f.MinPrice)
	setNonEmpty(v, "maxPrice", f.MaxPrice)
	f.FolderTypes.apply(v)
	return v
}
