// Package filter holds the per-collection filter specifications: the named
// constraints a user can set for Projects, Invoices and Elements, the pure
// predicates classifying a record as match or no-match, and the query-string
// serialization the remote fetch is built from.
package filter

import (
	"net/url"
	"strings"
)

// FolderTypes is the folder-type toggle group shared by invoices and
// elements. When any option is checked the group alone decides admission:
// the record must match at least one checked option, and the collection's
// scalar filters are bypassed entirely.
type FolderTypes struct {
	Adicionals bool
	Pressupost bool
}

// Any reports whether at least one option is checked.
func (f FolderTypes) Any() bool { return f.Adicionals || f.Pressupost }

// Match reports whether a record's folder type satisfies the checked
// options, OR-combined.
func (f FolderTypes) Match(folderType string) bool {
	ft := strings.ToLower(folderType)
	if f.Adicionals && strings.Contains(ft, "adicional") {
		return true
	}
	if f.Pressupost && strings.Contains(ft, "pressupost") {
		return true
	}
	return false
}

// Toggle flips one option by name. Unknown names are ignored.
func (f *FolderTypes) Toggle(option string) {
	switch option {
	case "adicionals":
		f.Adicionals = !f.Adicionals
	case "pressupost":
		f.Pressupost = !f.Pressupost
	}
}

func (f FolderTypes) apply(v url.Values) {
	if f.Adicionals {
		v.Set("folderTypeFilters[adicionals]", "true")
	}
	if f.Pressupost {
		v.Set("folderTypeFilters[pressupost]", "true")
	}
}

// MatchKeyword is the case-insensitive substring rule used by all free-text
// filters: an empty keyword passes everything, a stated keyword fails a
// record whose field is empty.
func MatchKeyword(value, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(keyword))
}

func setNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
