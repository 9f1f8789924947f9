package filter

import (
	"fmt"
	"strings"
)

// FormatSQL renders the active filters across all three collections as a
// WHERE-clause string for the copy-filters convenience. This is display
// output only: the remote query is always built from Values(), never from
// this string.
func FormatSQL(p ProjectFilter, inv InvoiceFilter, el ElementFilter) string {
	var clauses []string

	add := func(key, value string) {
		if value != "" {
			clauses = append(clauses, fmt.Sprintf("%s = '%s'", key, value))
		}
	}
	addToggle := func(key string, on bool) {
		if on {
			clauses = append(clauses, fmt.Sprintf("%s = 'true'", key))
		}
	}

	add("client", p.Client)
	add("size", p.Size)

	add("FileNameKeyword", inv.FileNameKeyword)
	add("startDate", inv.StartDate)
	add("endDate", inv.EndDate)
	addToggle("folderTypeFilters[adicionals]", inv.FolderTypes.Adicionals)
	addToggle("folderTypeFilters[pressupost]", inv.FolderTypes.Pressupost)

	add("nameKeyword", el.NameKeyword)
	add("invoiceNameKeyword", el.InvoiceNameKeyword)
	add("invoiceid", el.InvoiceID)
	add("minPrice", el.MinPrice)
	add("maxPrice", el.MaxPrice)
	addToggle("folderTypeFilters[adicionals]", el.FolderTypes.Adicionals)
	addToggle("folderTypeFilters[pressupost]", el.FolderTypes.Pressupost)

	if len(clauses) == 0 {
		return "WHERE "
	}
	return "WHERE " + strings.Join(clauses, " AND ")
}
